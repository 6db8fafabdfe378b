package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// supported image content types for product photos
var imageContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ProductService handles product management and storefront listings
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	images       ImageStorage
	keyPrefix    string
	publisher    shared.EventPublisher
}

// SetEventPublisher sets the publisher that receives product events after
// a successful save
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// saveProduct persists the product and hands its pending events to the
// publisher. Publish failures are handled inside the publisher; the saved
// state is already committed.
func (s *ProductService) saveProduct(ctx context.Context, product *catalog.Product) error {
	if err := s.productRepo.Save(ctx, product); err != nil {
		return err
	}
	_ = shared.PublishEvents(ctx, s.publisher, product)
	return nil
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	images ImageStorage,
	keyPrefix string,
) *ProductService {
	if keyPrefix == "" {
		keyPrefix = "products/"
	}
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		images:       images,
		keyPrefix:    keyPrefix,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return nil, err
	}

	price, err := valueobject.NewMoneyFromString(req.Price)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Name, req.CategoryID, price, req.Stock)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description, req.CategoryID); err != nil {
			return nil, err
		}
	}

	if req.Barcode != "" {
		exists, err := s.productRepo.ExistsByBarcode(ctx, req.Barcode)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this barcode already exists")
		}
		if err := product.SetBarcode(req.Barcode); err != nil {
			return nil, err
		}
	}

	if err := s.saveProduct(ctx, product); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, product), nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, product), nil
}

// GetByBarcode retrieves a product by barcode, used by the POS scanner flow
func (s *ProductService) GetByBarcode(ctx context.Context, barcode string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, product), nil
}

// List retrieves products matching the filter, with a total count
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return s.toResponses(ctx, products), total, nil
}

// ListSellable retrieves the storefront view: active products with stock
func (s *ProductService) ListSellable(ctx context.Context, filter ProductListFilter) ([]ProductResponse, error) {
	products, err := s.productRepo.FindSellable(ctx, s.toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, products), nil
}

// ListLowStock retrieves active products below the restock threshold
func (s *ProductService) ListLowStock(ctx context.Context, filter ProductListFilter) ([]ProductResponse, error) {
	products, err := s.productRepo.FindLowStock(ctx, s.toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, products), nil
}

// Update updates a product's basic information
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != product.CategoryID {
		if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
	}

	if err := product.Update(req.Name, req.Description, req.CategoryID); err != nil {
		return nil, err
	}

	if err := s.saveProduct(ctx, product); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, product), nil
}

// SetPrice changes a product's price. Existing cart entries keep the price
// they snapshotted when added.
func (s *ProductService) SetPrice(ctx context.Context, id uuid.UUID, req SetPriceRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	price, err := valueobject.NewMoneyFromString(req.Price)
	if err != nil {
		return nil, err
	}

	if err := product.SetPrice(price); err != nil {
		return nil, err
	}

	if err := s.saveProduct(ctx, product); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, product), nil
}

// SetStock replaces a product's stock level, a manual restock or correction
func (s *ProductService) SetStock(ctx context.Context, id uuid.UUID, req SetStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.SetStock(req.Stock); err != nil {
		return nil, err
	}

	if err := s.saveProduct(ctx, product); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, product), nil
}

// Deactivate removes a product from sale while keeping its sale history
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.saveProduct(ctx, product); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, product), nil
}

// Activate returns a deactivated product to sale
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Activate(); err != nil {
		return nil, err
	}

	if err := s.saveProduct(ctx, product); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, product), nil
}

// UploadImage stores a product photo and records its key on the product
func (s *ProductService) UploadImage(ctx context.Context, id uuid.UUID, data []byte, contentType string) (*ProductResponse, error) {
	if s.images == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Image storage is not configured")
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Image data is empty")
	}

	ext, ok := imageContentTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Image must be JPEG, PNG or WebP")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s%s%s", s.keyPrefix, product.ID, ext)
	if err := s.images.Upload(ctx, key, data, contentType); err != nil {
		return nil, err
	}

	previous := product.ImageKey
	product.SetImageKey(key)
	if err := s.saveProduct(ctx, product); err != nil {
		return nil, err
	}

	if previous != "" && previous != key {
		// Old image is best-effort cleanup, the product no longer references it
		_ = s.images.Delete(ctx, previous)
	}

	return s.toResponse(ctx, product), nil
}

func (s *ProductService) toDomainFilter(filter ProductListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search

	if filter.Page > 0 && filter.PageSize > 0 {
		domainFilter.Page = filter.Page
		domainFilter.PageSize = filter.PageSize
	}

	if filter.SortBy != "" {
		domainFilter.OrderBy = filter.SortBy
		if filter.SortDesc {
			domainFilter.OrderDir = "desc"
		} else {
			domainFilter.OrderDir = "asc"
		}
	} else {
		domainFilter.OrderBy = ""
	}

	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}
	if filter.InStock != nil {
		domainFilter.Filters["in_stock"] = *filter.InStock
	}

	return domainFilter
}

func (s *ProductService) toResponse(ctx context.Context, product *catalog.Product) *ProductResponse {
	resp := ToProductResponse(product)
	if product.ImageKey != "" && s.images != nil {
		if url, _, err := s.images.DownloadURL(ctx, product.ImageKey); err == nil {
			resp.ImageURL = url
		}
	}
	return resp
}

func (s *ProductService) toResponses(ctx context.Context, products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = *s.toResponse(ctx, &products[i])
	}
	return responses
}
