package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/cart"
)

// AddItemRequest is the input for adding a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// SetQuantityRequest is the input for replacing an entry's quantity
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// EntryResponse is one cart line in responses
type EntryResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitPrice   string    `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	Subtotal    string    `json:"subtotal"`
}

// CartResponse is the outward representation of the cart
type CartResponse struct {
	Entries   []EntryResponse `json:"entries"`
	Total     string          `json:"total"`
	ItemCount int             `json:"item_count"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToCartResponse converts a cart to its response form
func ToCartResponse(c *cart.Cart) *CartResponse {
	snapshot := c.Snapshot()

	entries := make([]EntryResponse, len(snapshot.Entries))
	for i, e := range snapshot.Entries {
		entries[i] = EntryResponse{
			ProductID:   e.ProductID,
			ProductName: e.ProductName,
			UnitPrice:   e.UnitPrice.StringFixed(2),
			Quantity:    e.Quantity,
			Subtotal:    e.Subtotal.StringFixed(2),
		}
	}

	return &CartResponse{
		Entries:   entries,
		Total:     snapshot.Total.StringFixed(2),
		ItemCount: snapshot.ItemCount,
		UpdatedAt: c.UpdatedAt,
	}
}
