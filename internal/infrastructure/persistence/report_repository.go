package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailpos/backend/internal/domain/report"
)

// GormReportRepository implements the report Repository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// TotalBetween sums completed sale totals in [start, end)
func (r *GormReportRepository) TotalBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, int64, error) {
	type totalResult struct {
		Total     decimal.Decimal
		SaleCount int64
	}

	var result totalResult
	err := r.db.WithContext(ctx).Table("sales").
		Select("COALESCE(SUM(total), 0) as total, COUNT(*) as sale_count").
		Where("status = ?", "completed").
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, 0, err
	}

	return result.Total, result.SaleCount, nil
}

// TopProducts ranks products by units sold in [start, end)
func (r *GormReportRepository) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]report.TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}

	var results []report.TopProduct
	err := r.db.WithContext(ctx).Table("sale_items si").
		Select(`
			si.product_name,
			COALESCE(SUM(si.quantity), 0) as units_sold,
			COALESCE(SUM(si.subtotal), 0) as revenue
		`).
		Joins("JOIN sales s ON s.id = si.sale_id").
		Where("s.status = ?", "completed").
		Where("s.created_at >= ? AND s.created_at < ?", start, end).
		Group("si.product_name").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

// ByPaymentMethod breaks down completed sales by payment method in [start, end)
func (r *GormReportRepository) ByPaymentMethod(ctx context.Context, start, end time.Time) ([]report.PaymentMethodBreakdown, error) {
	var results []report.PaymentMethodBreakdown
	err := r.db.WithContext(ctx).Table("sales").
		Select(`
			payment_method,
			COALESCE(SUM(total), 0) as total,
			COUNT(*) as sale_count
		`).
		Where("status = ?", "completed").
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("payment_method").
		Order("total DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

// DailyTotals returns a per-day series of completed sales in [start, end)
func (r *GormReportRepository) DailyTotals(ctx context.Context, start, end time.Time) ([]report.DailySales, error) {
	var results []report.DailySales
	err := r.db.WithContext(ctx).Table("sales").
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(total), 0) as total,
			COUNT(*) as sale_count
		`).
		Where("status = ?", "completed").
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

var _ report.Repository = (*GormReportRepository)(nil)
