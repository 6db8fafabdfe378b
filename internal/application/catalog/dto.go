package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/catalog"
)

// CreateCategoryRequest is the input for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateCategoryRequest is the input for updating a category
type UpdateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryResponse is the outward representation of a category
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain category to its response form
func ToCategoryResponse(category *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// CreateProductRequest is the input for creating a product
type CreateProductRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  uuid.UUID `json:"category_id"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	Barcode     string    `json:"barcode"`
}

// UpdateProductRequest is the input for updating a product's basic data
type UpdateProductRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  uuid.UUID `json:"category_id"`
}

// SetPriceRequest is the input for changing a product's price
type SetPriceRequest struct {
	Price string `json:"price"`
}

// SetStockRequest is the input for a manual stock adjustment
type SetStockRequest struct {
	Stock int `json:"stock"`
}

// ProductResponse is the outward representation of a product
type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  uuid.UUID `json:"category_id"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	Barcode     string    `json:"barcode,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Active      bool      `json:"active"`
	LowStock    bool      `json:"low_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProductResponse converts a domain product to its response form
func ToProductResponse(product *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		CategoryID:  product.CategoryID,
		Price:       product.Price.StringFixed(2),
		Stock:       product.Stock,
		Barcode:     product.Barcode,
		Active:      product.Active,
		LowStock:    product.IsLowStock(),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// ProductListFilter narrows and pages product listings
type ProductListFilter struct {
	Search     string
	CategoryID *uuid.UUID
	Active     *bool
	InStock    *bool
	Page       int
	PageSize   int
	SortBy     string
	SortDesc   bool
}
