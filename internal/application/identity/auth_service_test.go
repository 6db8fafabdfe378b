package identity

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/auth"
	"github.com/retailpos/backend/internal/infrastructure/config"
)

type fakeUserRepository struct {
	users map[uuid.UUID]*identity.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[uuid.UUID]*identity.User)}
}

func (r *fakeUserRepository) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepository) FindByUsername(_ context.Context, username string) (*identity.User, error) {
	for _, user := range r.users {
		if user.Username == strings.ToLower(username) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, user := range r.users {
		if user.Email == strings.ToLower(email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepository) FindAll(_ context.Context, _ shared.Filter) ([]identity.User, error) {
	result := make([]identity.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, *user)
	}
	return result, nil
}

func (r *fakeUserRepository) Save(_ context.Context, user *identity.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *fakeUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepository, *auth.MemoryTokenBlacklist) {
	t.Helper()
	repo := newFakeUserRepository()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-service",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "pos-test",
	})
	blacklist := auth.NewMemoryTokenBlacklist()
	return NewAuthService(repo, jwtService, blacklist, nil), repo, blacklist
}

func TestAuthServiceRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates customer account", func(t *testing.T) {
		service, repo, _ := newTestAuthService(t)

		resp, err := service.Register(ctx, RegisterRequest{
			Username:  "alice",
			Email:     "alice@example.com",
			Password:  "password123",
			FirstName: "Alice",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, string(identity.RoleCustomer), resp.Role)
		assert.True(t, resp.Active)

		stored, err := repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, stored.VerifyPassword("password123"))
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		service, _, _ := newTestAuthService(t)

		_, err := service.Register(ctx, RegisterRequest{
			Username: "bob", Email: "bob@example.com", Password: "password123",
		})
		require.NoError(t, err)

		_, err = service.Register(ctx, RegisterRequest{
			Username: "bob", Email: "other@example.com", Password: "password123",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		service, _, _ := newTestAuthService(t)

		_, err := service.Register(ctx, RegisterRequest{
			Username: "carol", Email: "carol@example.com", Password: "password123",
		})
		require.NoError(t, err)

		_, err = service.Register(ctx, RegisterRequest{
			Username: "carol2", Email: "Carol@Example.com", Password: "password123",
		})
		require.Error(t, err)
	})
}

func TestAuthServiceCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates cashier", func(t *testing.T) {
		service, _, _ := newTestAuthService(t)

		resp, err := service.CreateUser(ctx, CreateUserRequest{
			Username: "cashier1", Email: "cashier1@example.com",
			Password: "password123", Role: "cashier",
		})
		require.NoError(t, err)
		assert.Equal(t, string(identity.RoleCashier), resp.Role)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		service, _, _ := newTestAuthService(t)

		_, err := service.CreateUser(ctx, CreateUserRequest{
			Username: "x", Email: "x@example.com",
			Password: "password123", Role: "superuser",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ROLE", domainErr.Code)
	})
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	register := func(t *testing.T, service *AuthService) *UserResponse {
		t.Helper()
		resp, err := service.Register(ctx, RegisterRequest{
			Username: "dave", Email: "dave@example.com", Password: "password123",
		})
		require.NoError(t, err)
		return resp
	}

	t.Run("issues token pair on success", func(t *testing.T) {
		service, _, _ := newTestAuthService(t)
		register(t, service)

		resp, err := service.Login(ctx, LoginRequest{Username: "dave", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
		assert.NotEmpty(t, resp.Tokens.RefreshToken)
		assert.NotNil(t, resp.User.LastLoginAt)
	})

	t.Run("rejects wrong password without revealing user existence", func(t *testing.T) {
		service, _, _ := newTestAuthService(t)
		register(t, service)

		_, errUnknown := service.Login(ctx, LoginRequest{Username: "ghost", Password: "nope"})
		_, errWrong := service.Login(ctx, LoginRequest{Username: "dave", Password: "nope"})

		require.Error(t, errUnknown)
		require.Error(t, errWrong)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("locks account after repeated failures", func(t *testing.T) {
		service, repo, _ := newTestAuthService(t)
		registered := register(t, service)

		var lastErr error
		for i := 0; i < maxLoginAttempts; i++ {
			_, lastErr = service.Login(ctx, LoginRequest{Username: "dave", Password: "wrong"})
			require.Error(t, lastErr)
		}

		var domainErr *shared.DomainError
		require.ErrorAs(t, lastErr, &domainErr)
		assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)

		stored, err := repo.FindByID(ctx, registered.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsLocked())

		// correct password is refused while the lock holds
		_, err = service.Login(ctx, LoginRequest{Username: "dave", Password: "password123"})
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
	})

	t.Run("rejects deactivated account", func(t *testing.T) {
		service, repo, _ := newTestAuthService(t)
		registered := register(t, service)

		stored := repo.users[registered.ID]
		stored.Deactivate()

		_, err := service.Login(ctx, LoginRequest{Username: "dave", Password: "password123"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_DISABLED", domainErr.Code)
	})
}

func TestAuthServiceRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates token pair", func(t *testing.T) {
		service, _, _ := newTestAuthService(t)
		_, err := service.Register(ctx, RegisterRequest{
			Username: "erin", Email: "erin@example.com", Password: "password123",
		})
		require.NoError(t, err)

		login, err := service.Login(ctx, LoginRequest{Username: "erin", Password: "password123"})
		require.NoError(t, err)

		pair, err := service.Refresh(ctx, RefreshRequest{RefreshToken: login.Tokens.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		service, _, _ := newTestAuthService(t)

		_, err := service.Refresh(ctx, RefreshRequest{RefreshToken: "not-a-token"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
	})
}

func TestAuthServiceLogout(t *testing.T) {
	ctx := context.Background()
	service, _, blacklist := newTestAuthService(t)

	_, err := service.Register(ctx, RegisterRequest{
		Username: "frank", Email: "frank@example.com", Password: "password123",
	})
	require.NoError(t, err)

	login, err := service.Login(ctx, LoginRequest{Username: "frank", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, login.Tokens.AccessToken))

	claims, err := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-service",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "pos-test",
	}).ValidateAccessToken(login.Tokens.AccessToken)
	require.NoError(t, err)

	revoked, err := blacklist.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestUserServiceAdmin(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepository()
	service := NewUserService(repo, nil)

	user, err := identity.NewUser("gina", "gina@example.com", "password123", identity.RoleCashier)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	t.Run("changes role", func(t *testing.T) {
		resp, err := service.ChangeRole(ctx, user.ID, ChangeRoleRequest{Role: "admin"})
		require.NoError(t, err)
		assert.Equal(t, string(identity.RoleAdmin), resp.Role)
	})

	t.Run("rejects invalid role", func(t *testing.T) {
		_, err := service.ChangeRole(ctx, user.ID, ChangeRoleRequest{Role: "owner"})
		require.Error(t, err)
	})

	t.Run("deactivate and activate", func(t *testing.T) {
		require.NoError(t, service.Deactivate(ctx, user.ID))
		stored, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, stored.Active)

		require.NoError(t, service.Activate(ctx, user.ID))
		stored, err = repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, stored.Active)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := service.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
