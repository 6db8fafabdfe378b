package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a sale was paid
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// Valid reports whether the payment method is a known value
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// SaleStatus is the lifecycle state of a sale
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// SaleItem is an immutable line of a sale. Product name and unit price are
// snapshotted at commit time so the record survives later product edits and
// deactivation.
type SaleItem struct {
	shared.BaseEntity
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// Sale is the persisted record of a completed purchase, either from the
// storefront checkout or the in-person POS. It is the aggregate root; items
// are written only as part of its atomic commit.
type Sale struct {
	shared.BaseAggregateRoot
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null"`
	Status        SaleStatus      `gorm:"type:varchar(20);not null;default:'completed';index"`
	Notes         string          `gorm:"type:text"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates an empty completed sale for a user
func NewSale(userID uuid.UUID, paymentMethod PaymentMethod) (*Sale, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Sale must belong to a user")
	}
	if !paymentMethod.Valid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be cash, card or transfer")
	}

	return &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Total:             decimal.Zero,
		PaymentMethod:     paymentMethod,
		Status:            SaleStatusCompleted,
	}, nil
}

// SetNotes attaches free-form notes to the sale
func (s *Sale) SetNotes(notes string) {
	s.Notes = notes
}

// AddItem appends a line item with a snapshotted product name and unit
// price, and keeps the running total consistent with the item subtotals.
func (s *Sale) AddItem(productID uuid.UUID, productName string, unitPrice valueobject.Money, quantity int) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Item must reference a product")
	}
	if productName == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "Item must snapshot the product name")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	subtotal := unitPrice.MulInt(quantity)
	s.Items = append(s.Items, SaleItem{
		BaseEntity:  shared.NewBaseEntity(),
		SaleID:      s.ID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Subtotal:    subtotal.Amount(),
	})
	s.Total = s.Total.Add(subtotal.Amount())

	return nil
}

// Finalize validates the sale is complete and publishes the created event.
// Call once, after all items are added and before persisting.
func (s *Sale) Finalize() error {
	if len(s.Items) == 0 {
		return shared.ErrEmptyCart
	}

	sum := decimal.Zero
	for _, item := range s.Items {
		sum = sum.Add(item.Subtotal)
	}
	if !sum.Equal(s.Total) {
		return shared.NewDomainError("TOTAL_MISMATCH", "Sale total does not match item subtotals")
	}

	s.AddDomainEvent(NewSaleCompletedEvent(s))

	return nil
}

// Cancel transitions a completed sale to cancelled. The transition is
// modeled but not yet reachable from any endpoint; whether cancellation
// restores stock is an open product decision and is NOT done here.
func (s *Sale) Cancel() error {
	if s.Status == SaleStatusCancelled {
		return shared.NewDomainError("ALREADY_CANCELLED", "Sale is already cancelled")
	}

	s.Status = SaleStatusCancelled
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleCancelledEvent(s))

	return nil
}

// ItemCount returns the total number of units across all items
func (s *Sale) ItemCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}
