package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
)

// UserService handles administrative user management
type UserService struct {
	users  identity.UserRepository
	logger *zap.Logger
}

// NewUserService creates a user service
func NewUserService(users identity.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, logger: logger}
}

// UserListFilter controls user listing
type UserListFilter struct {
	Search   string
	Role     string
	Active   *bool
	Page     int
	PageSize int
}

// List returns users matching the filter
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]*UserResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	users, err := s.users.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]*UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses, nil
}

// Get returns a single user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ChangeRole assigns a new role to a user
func (s *UserService) ChangeRole(ctx context.Context, id uuid.UUID, req ChangeRoleRequest) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.ChangeRole(identity.Role(req.Role)); err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user role changed",
		zap.String("user_id", user.ID.String()),
		zap.String("role", req.Role))

	return ToUserResponse(user), nil
}

// Deactivate disables a user account
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Deactivate()
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	s.logger.Info("user deactivated", zap.String("user_id", user.ID.String()))
	return nil
}

// Activate re-enables a user account and clears any login lock
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Activate()
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	s.logger.Info("user activated", zap.String("user_id", user.ID.String()))
	return nil
}
