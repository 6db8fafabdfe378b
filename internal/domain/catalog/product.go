package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LowStockThreshold is the stock level below which a product is flagged
// for restocking on the dashboard.
const LowStockThreshold = 10

// Product represents a sellable item in the catalog.
// It is the aggregate root for product-related operations.
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null;index"`
	Description string          `gorm:"type:text"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	Barcode     string          `gorm:"type:varchar(50);uniqueIndex:idx_products_barcode,where:barcode <> ''"`
	ImageKey    string          `gorm:"type:varchar(255)"`
	Active      bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(name string, categoryID uuid.UUID, price valueobject.Money, stock int) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Product must belong to a category")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		CategoryID:        categoryID,
		Price:             price.Amount(),
		Stock:             stock,
		Active:            true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string, categoryID uuid.UUID) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Product must belong to a category")
	}

	p.Name = name
	p.Description = description
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPrice changes the selling price
func (p *Product) SetPrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	oldPrice := p.Price
	p.Price = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// SetBarcode sets the product barcode
func (p *Product) SetBarcode(barcode string) error {
	if len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}

	p.Barcode = barcode
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetImageKey records the object-storage key of the product image
func (p *Product) SetImageKey(key string) {
	p.ImageKey = key
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetStock replaces the stock level (catalog mutation, not a sale)
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	oldStock := p.Stock
	p.Stock = stock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockAdjustedEvent(p, oldStock))

	return nil
}

// DeductStock decrements stock for a sale. The stock >= 0 invariant is
// enforced here and re-checked under a row lock at commit time.
func (p *Product) DeductStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.Stock < quantity {
		return shared.ErrInsufficientStock
	}

	oldStock := p.Stock
	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockAdjustedEvent(p, oldStock))

	return nil
}

// Activate re-activates a soft-deleted product
func (p *Product) Activate() error {
	if p.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// Deactivate soft-deletes the product. The row is never removed so that
// historical sale items keep a valid reference.
func (p *Product) Deactivate() error {
	if !p.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductDeactivatedEvent(p))

	return nil
}

// InStock returns true if at least one unit is available
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// IsSellable returns true if the product can be added to a cart or sale
func (p *Product) IsSellable() bool {
	return p.Active && p.InStock()
}

// IsLowStock returns true if the stock is below the restock threshold
func (p *Product) IsLowStock() bool {
	return p.Stock < LowStockThreshold
}

// PriceMoney returns the selling price as a Money value object
func (p *Product) PriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
