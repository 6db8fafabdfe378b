package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// Ledger persists completed sales. Commit is the single write path: a sale,
// its items and the matching stock decrements succeed or fail as one unit.
type Ledger interface {
	// Commit atomically inserts the sale with its items and decrements each
	// referenced product's stock. Every product row is locked for the
	// duration of the transaction and its stock re-verified; the first
	// product with insufficient stock aborts the whole commit with
	// ErrInsufficientStock and no partial state.
	Commit(ctx context.Context, sale *Sale) error

	// FindByID fetches a sale with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindAll lists sales with items, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)

	// FindByUser lists one user's sales with items, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Sale, error)

	// Count counts all sales
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByUser counts one user's sales
	CountByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error)
}
