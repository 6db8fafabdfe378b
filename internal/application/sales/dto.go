package sales

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/sales"
)

// CheckoutRequest is the input for converting the cart into a sale
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

// POSItemRequest is one line of an in-person sale
type POSItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CreatePOSSaleRequest is the input for a cashier-entered sale
type CreatePOSSaleRequest struct {
	CustomerID    *uuid.UUID       `json:"customer_id"`
	PaymentMethod string           `json:"payment_method"`
	Notes         string           `json:"notes"`
	Items         []POSItemRequest `json:"items"`
}

// SaleListFilter narrows and pages sale listings
type SaleListFilter struct {
	PaymentMethod string
	From          *time.Time
	To            *time.Time
	Page          int
	PageSize      int
}

// SaleItemResponse is one line of a sale in responses
type SaleItemResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	Subtotal    string    `json:"subtotal"`
}

// SaleResponse is the outward representation of a sale
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	Total         string             `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	Notes         string             `json:"notes,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	ItemCount     int                `json:"item_count"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ToSaleResponse converts a domain sale to its response form
func ToSaleResponse(sale *sales.Sale) *SaleResponse {
	items := make([]SaleItemResponse, len(sale.Items))
	for i, item := range sale.Items {
		items[i] = SaleItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Subtotal:    item.Subtotal.StringFixed(2),
		}
	}

	return &SaleResponse{
		ID:            sale.ID,
		UserID:        sale.UserID,
		Total:         sale.Total.StringFixed(2),
		PaymentMethod: string(sale.PaymentMethod),
		Status:        string(sale.Status),
		Notes:         sale.Notes,
		Items:         items,
		ItemCount:     sale.ItemCount(),
		CreatedAt:     sale.CreatedAt,
	}
}
