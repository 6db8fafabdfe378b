package catalog

import (
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product event types
const (
	EventTypeProductCreated       = "catalog.product.created"
	EventTypeProductUpdated       = "catalog.product.updated"
	EventTypeProductPriceChanged  = "catalog.product.price_changed"
	EventTypeProductStockAdjusted = "catalog.product.stock_adjusted"
	EventTypeProductDeactivated   = "catalog.product.deactivated"
)

const productAggregateType = "Product"

// ProductCreatedEvent is published when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, productAggregateType, product.ID),
		Name:            product.Name,
		Price:           product.Price,
		Stock:           product.Stock,
	}
}

// ProductUpdatedEvent is published when a product's details change
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, productAggregateType, product.ID),
		Name:            product.Name,
	}
}

// ProductPriceChangedEvent is published when the selling price changes
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	OldPrice decimal.Decimal `json:"old_price"`
	NewPrice decimal.Decimal `json:"new_price"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(product *Product, oldPrice decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, productAggregateType, product.ID),
		OldPrice:        oldPrice,
		NewPrice:        product.Price,
	}
}

// ProductStockAdjustedEvent is published when stock changes
type ProductStockAdjustedEvent struct {
	shared.BaseDomainEvent
	OldStock int `json:"old_stock"`
	NewStock int `json:"new_stock"`
}

// NewProductStockAdjustedEvent creates a new ProductStockAdjustedEvent
func NewProductStockAdjustedEvent(product *Product, oldStock int) *ProductStockAdjustedEvent {
	return &ProductStockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStockAdjusted, productAggregateType, product.ID),
		OldStock:        oldStock,
		NewStock:        product.Stock,
	}
}

// ProductDeactivatedEvent is published when a product is soft-deleted
type ProductDeactivatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProductDeactivatedEvent creates a new ProductDeactivatedEvent
func NewProductDeactivatedEvent(product *Product) *ProductDeactivatedEvent {
	return &ProductDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeactivated, productAggregateType, product.ID),
		Name:            product.Name,
	}
}
