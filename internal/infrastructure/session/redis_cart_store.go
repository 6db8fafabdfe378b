package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/retailpos/backend/internal/domain/cart"
)

// RedisCartStore keeps carts in Redis, one JSON value per user key. The TTL
// is refreshed on every save, so an idle cart eventually expires on its own.
type RedisCartStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCartStore creates a cart store backed by an existing Redis client
func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{
		client:    client,
		keyPrefix: "session:cart:",
		ttl:       ttl,
	}
}

// Load fetches the user's cart, or a new empty cart if none is stored
func (s *RedisCartStore) Load(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	data, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cart.New(userID), nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		// A corrupt session entry should not block the user, start fresh
		return cart.New(userID), nil
	}
	return &c, nil
}

// Save persists the cart under the user's key
func (s *RedisCartStore) Save(ctx context.Context, c *cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.key(c.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Clear removes the user's cart
func (s *RedisCartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *RedisCartStore) key(userID uuid.UUID) string {
	return s.keyPrefix + userID.String()
}

var _ cart.Store = (*RedisCartStore)(nil)
