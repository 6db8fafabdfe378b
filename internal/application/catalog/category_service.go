package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
)

// CategoryService handles category management
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	publisher    shared.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// SetEventPublisher sets the publisher that receives category events after
// a successful save
func (s *CategoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

func (s *CategoryService) saveCategory(ctx context.Context, category *catalog.Category) error {
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return err
	}
	_ = shared.PublishEvents(ctx, s.publisher, category)
	return nil
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
	}

	category, err := catalog.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.saveCategory(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category), nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponse(category), nil
}

// List retrieves all categories
func (s *CategoryService) List(ctx context.Context, search string, page, pageSize int) ([]CategoryResponse, error) {
	filter := shared.DefaultFilter()
	filter.Search = search
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	if page > 0 && pageSize > 0 {
		filter.Page = page
		filter.PageSize = pageSize
	}

	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = *ToCategoryResponse(&categories[i])
	}
	return responses, nil
}

// Update updates an existing category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != category.Name {
		exists, err := s.categoryRepo.ExistsByName(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
		}
	}

	if err := category.Update(req.Name, req.Description); err != nil {
		return nil, err
	}

	if err := s.saveCategory(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category), nil
}

// Delete removes a category. The repository refuses to delete a category
// that still has products.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}
