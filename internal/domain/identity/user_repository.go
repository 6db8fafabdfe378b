package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by their unique username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail finds a user by their unique email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll lists users matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// ExistsByUsername checks whether a username is taken
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail checks whether an email is registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
