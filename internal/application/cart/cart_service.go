package cart

import (
	"context"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/cart"
	"github.com/retailpos/backend/internal/domain/catalog"
)

// CartService manages the per-user session cart. Every mutation validates
// against the live catalog, but prices are snapshotted on first add.
type CartService struct {
	store       cart.Store
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(store cart.Store, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		store:       store,
		productRepo: productRepo,
	}
}

// Get returns the user's current cart
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}

// AddItem puts a product into the user's cart, capped at available stock
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := c.Add(product, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}

// SetQuantity replaces an entry's quantity; zero removes the entry
func (s *CartService) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := c.SetQuantity(product, quantity); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}

// RemoveItem deletes an entry from the cart. Removing an absent product is
// a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.Remove(productID)

	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}

// Clear empties the user's cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.store.Clear(ctx, userID)
}
