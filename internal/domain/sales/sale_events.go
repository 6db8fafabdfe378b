package sales

import (
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Sale event types
const (
	EventTypeSaleCompleted = "sales.sale.completed"
	EventTypeSaleCancelled = "sales.sale.cancelled"
)

const saleAggregateType = "Sale"

// SaleCompletedEvent is published when a sale commits
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	UserID        uuid.UUID       `json:"user_id"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	ItemCount     int             `json:"item_count"`
}

// NewSaleCompletedEvent creates a new SaleCompletedEvent
func NewSaleCompletedEvent(sale *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, saleAggregateType, sale.ID),
		UserID:          sale.UserID,
		Total:           sale.Total,
		PaymentMethod:   sale.PaymentMethod,
		ItemCount:       sale.ItemCount(),
	}
}

// SaleCancelledEvent is published when a sale is cancelled
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID       `json:"user_id"`
	Total  decimal.Decimal `json:"total"`
}

// NewSaleCancelledEvent creates a new SaleCancelledEvent
func NewSaleCancelledEvent(sale *Sale) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, saleAggregateType, sale.ID),
		UserID:          sale.UserID,
		Total:           sale.Total,
	}
}
