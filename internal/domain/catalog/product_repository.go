package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByBarcode finds a product by its barcode
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)

	// FindAll finds all products matching the filter. Filter keys:
	// "category_id" (uuid.UUID), "active" (bool), "in_stock" (bool).
	// Search matches name, barcode and description.
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindSellable finds active products with stock > 0 (storefront listing)
	FindSellable(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindLowStock finds active products below the restock threshold
	FindLowStock(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountLowStock counts active products below the restock threshold
	CountLowStock(ctx context.Context) (int64, error)

	// CountByCategory counts products referencing a category
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// ExistsByBarcode checks if a product with the given barcode exists
	ExistsByBarcode(ctx context.Context, barcode string) (bool, error)
}
