package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Entry is one product line in a cart. UnitPrice is snapshotted when the
// product is first added and is intentionally not refreshed if the catalog
// price changes afterwards: the customer pays the price they saw.
type Entry struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Cart is the per-user selection of products awaiting checkout. It lives
// only in the session store; nothing is written to the database until the
// checkout transaction commits.
type Cart struct {
	UserID    uuid.UUID `json:"user_id"`
	Entries   []Entry   `json:"entries"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates an empty cart for a user
func New(userID uuid.UUID) *Cart {
	return &Cart{
		UserID:    userID,
		Entries:   make([]Entry, 0),
		UpdatedAt: time.Now(),
	}
}

// Add puts quantity units of a product into the cart. For an existing entry
// the quantity is incremented but capped at the product's live stock; an add
// on an entry already at the stock limit fails with InsufficientStock and
// leaves the cart untouched.
func (c *Cart) Add(product *catalog.Product, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}
	if !product.Active || !product.InStock() {
		return shared.ErrOutOfStock
	}

	if entry := c.find(product.ID); entry != nil {
		if entry.Quantity >= product.Stock {
			return shared.ErrInsufficientStock
		}
		entry.Quantity += quantity
		if entry.Quantity > product.Stock {
			entry.Quantity = product.Stock
		}
		entry.Subtotal = entry.UnitPrice.Mul(decimal.NewFromInt(int64(entry.Quantity)))
		c.UpdatedAt = time.Now()
		return nil
	}

	if quantity > product.Stock {
		quantity = product.Stock
	}
	unitPrice := product.Price
	c.Entries = append(c.Entries, Entry{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		Subtotal:    unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	})
	c.UpdatedAt = time.Now()
	return nil
}

// SetQuantity replaces an entry's quantity. A quantity <= 0 removes the
// entry; a quantity above the product's live stock fails with
// InsufficientStock and keeps the prior quantity.
func (c *Cart) SetQuantity(product *catalog.Product, quantity int) error {
	entry := c.find(product.ID)
	if entry == nil {
		return shared.ErrNotFound
	}

	if quantity <= 0 {
		c.Remove(product.ID)
		return nil
	}
	if quantity > product.Stock {
		return shared.ErrInsufficientStock
	}

	entry.Quantity = quantity
	entry.Subtotal = entry.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	c.UpdatedAt = time.Now()
	return nil
}

// Remove deletes an entry from the cart. Removing an absent product is a
// no-op, not an error.
func (c *Cart) Remove(productID uuid.UUID) {
	for i := range c.Entries {
		if c.Entries[i].ProductID == productID {
			c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
			c.UpdatedAt = time.Now()
			return
		}
	}
}

// IsEmpty returns true if the cart has no entries
func (c *Cart) IsEmpty() bool {
	return len(c.Entries) == 0
}

// Snapshot is a read-only view of the cart used for display and checkout
type Snapshot struct {
	Entries   []Entry         `json:"entries"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// Snapshot returns the ordered entries with the aggregate total and unit
// count. It never mutates the cart.
func (c *Cart) Snapshot() Snapshot {
	entries := make([]Entry, len(c.Entries))
	copy(entries, c.Entries)

	total := decimal.Zero
	count := 0
	for _, e := range entries {
		total = total.Add(e.Subtotal)
		count += e.Quantity
	}

	return Snapshot{
		Entries:   entries,
		Total:     total,
		ItemCount: count,
	}
}

func (c *Cart) find(productID uuid.UUID) *Entry {
	for i := range c.Entries {
		if c.Entries[i].ProductID == productID {
			return &c.Entries[i]
		}
	}
	return nil
}
