package persistence

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
)

// GormSaleLedger implements the sales Ledger using GORM
type GormSaleLedger struct {
	db *gorm.DB
}

// NewGormSaleLedger creates a new GormSaleLedger
func NewGormSaleLedger(db *gorm.DB) *GormSaleLedger {
	return &GormSaleLedger{db: db}
}

// Commit persists the sale and its items and decrements product stock in a
// single transaction. Each product row is locked with SELECT FOR UPDATE and
// its stock re-verified under the lock, so concurrent checkouts of the same
// product serialize and never oversell. Any insufficiency aborts the whole
// transaction; nothing is partially written.
func (l *GormSaleLedger) Commit(ctx context.Context, sale *sales.Sale) error {
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock products in a stable order to avoid deadlocks between
		// concurrent commits touching overlapping product sets.
		items := make([]sales.SaleItem, len(sale.Items))
		copy(items, sale.Items)
		sort.Slice(items, func(i, j int) bool {
			return items[i].ProductID.String() < items[j].ProductID.String()
		})

		for _, item := range items {
			var product catalog.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return shared.ErrNotFound
				}
				return err
			}

			if !product.Active {
				return shared.ErrOutOfStock
			}
			if product.Stock < item.Quantity {
				return shared.ErrInsufficientStock
			}

			if err := tx.Model(&catalog.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return err
			}
		}

		// Items are created through the association in the same insert
		return tx.Create(sale).Error
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return err
		}
		return shared.ErrTransactionFailed
	}
	return nil
}

// FindByID finds a sale with its items
func (l *GormSaleLedger) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := l.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds all sales matching the filter
func (l *GormSaleLedger) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	query := l.applyFilter(l.db.WithContext(ctx).Model(&sales.Sale{}).Preload("Items"), filter)

	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindByUser finds all sales belonging to a user
func (l *GormSaleLedger) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	query := l.applyFilter(
		l.db.WithContext(ctx).Model(&sales.Sale{}).Preload("Items").
			Where("user_id = ?", userID),
		filter,
	)

	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Count counts sales matching the filter
func (l *GormSaleLedger) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := l.applyFilterWithoutPagination(l.db.WithContext(ctx).Model(&sales.Sale{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByUser counts sales belonging to a user
func (l *GormSaleLedger) CountByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := l.applyFilterWithoutPagination(
		l.db.WithContext(ctx).Model(&sales.Sale{}).Where("user_id = ?", userID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (l *GormSaleLedger) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = l.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

func (l *GormSaleLedger) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "from":
			query = query.Where("created_at >= ?", value)
		case "to":
			query = query.Where("created_at < ?", value)
		}
	}
	return query
}

var _ sales.Ledger = (*GormSaleLedger)(nil)
