package cart

import (
	"context"

	"github.com/google/uuid"
)

// Store persists carts between requests. The cart is session state: an
// absent cart is not an error, Load returns a fresh empty cart for the user.
type Store interface {
	// Load fetches the user's cart, or a new empty cart if none is stored
	Load(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// Save persists the cart under the user's key
	Save(ctx context.Context, c *Cart) error

	// Clear removes the user's cart. Clearing an absent cart is a no-op.
	Clear(ctx context.Context, userID uuid.UUID) error
}
