package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/auth"
)

const (
	maxLoginAttempts  = 5
	loginLockDuration = 15 * time.Minute
)

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	users     identity.UserRepository
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates an auth service
func NewAuthService(users identity.UserRepository, jwt *auth.JWTService, blacklist auth.TokenBlacklist, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, jwt: jwt, blacklist: blacklist, logger: logger}
}

// Register creates a new customer account
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if taken, err := s.users.ExistsByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}
	if taken, err := s.users.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	user, err := identity.NewCustomer(req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	user.SetName(req.FirstName, req.LastName)
	if err := user.SetContact(req.Phone, req.Address); err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return ToUserResponse(user), nil
}

// CreateUser creates a staff or customer account with an explicit role
func (s *AuthService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	role := identity.Role(strings.ToLower(req.Role))
	if !role.Valid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+req.Role)
	}

	if taken, err := s.users.ExistsByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}
	if taken, err := s.users.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	user, err := identity.NewUser(req.Username, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}
	user.SetName(req.FirstName, req.LastName)

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)))

	return ToUserResponse(user), nil
}

// Login authenticates a user and issues a token pair. Failed attempts are
// counted on the account and repeated failures lock it temporarily.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND" {
			// do not reveal whether the username exists
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked, try again later")
		}
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account is disabled")
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(maxLoginAttempts, loginLockDuration)
		if err := s.users.Save(ctx, user); err != nil {
			s.logger.Error("failed to persist login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("account locked after repeated failures",
				zap.String("username", user.Username))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked, try again later")
		}
		return nil, errInvalidCredentials
	}

	user.RecordLoginSuccess()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &LoginResponse{User: ToUserResponse(user), Tokens: tokens}, nil
}

// Refresh validates a refresh token and issues a new token pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*auth.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token has been revoked")
		}
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account is disabled")
	}

	return s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwt.ValidateAccessToken(accessToken)
	if err != nil {
		// already unusable, nothing to revoke
		return nil
	}
	if s.blacklist == nil {
		return nil
	}
	return s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL())
}

// GetProfile returns the user's own account details
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// UpdateProfile edits the user's own name and contact details
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.SetName(req.FirstName, req.LastName)
	if err := user.SetContact(req.Phone, req.Address); err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}
