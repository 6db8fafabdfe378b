package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/cart"
)

// MemoryCartStore is an in-process cart store for tests and single-instance
// deployments without Redis. Carts are stored as JSON so load/save semantics
// match the Redis store, including copy isolation.
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID][]byte
}

// NewMemoryCartStore creates an in-memory cart store
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{
		carts: make(map[uuid.UUID][]byte),
	}
}

// Load fetches the user's cart, or a new empty cart if none is stored
func (s *MemoryCartStore) Load(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	s.mu.RLock()
	data, ok := s.carts[userID]
	s.mu.RUnlock()

	if !ok {
		return cart.New(userID), nil
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return cart.New(userID), nil
	}
	return &c, nil
}

// Save persists the cart under the user's key
func (s *MemoryCartStore) Save(ctx context.Context, c *cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.carts[c.UserID] = data
	s.mu.Unlock()
	return nil
}

// Clear removes the user's cart
func (s *MemoryCartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	delete(s.carts, userID)
	s.mu.Unlock()
	return nil
}

var _ cart.Store = (*MemoryCartStore)(nil)
