package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identityapp "github.com/retailpos/backend/internal/application/identity"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/auth"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
	"github.com/retailpos/backend/internal/interfaces/http/router"
)

type memUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]identity.User
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{users: make(map[uuid.UUID]identity.User)}
}

func (r *memUserRepository) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := u
	return &out, nil
}

func (r *memUserRepository) FindByUsername(_ context.Context, username string) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == strings.ToLower(username) {
			out := u
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memUserRepository) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			out := u
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memUserRepository) FindAll(_ context.Context, _ shared.Filter) ([]identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]identity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepository) Save(_ context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *memUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func newAuthTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-0123456789ab",
		RefreshSecret:          "handler-test-refresh-0123456789a",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "pos-test",
	})

	blacklist := auth.NewMemoryTokenBlacklist()
	authService := identityapp.NewAuthService(newMemUserRepository(), jwtService, blacklist, nil)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist

	engine := gin.New()
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	router.NewRouter(engine).
		Register(NewAuthHandler(authService)).
		Setup()
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuthHandlerFlow(t *testing.T) {
	engine := newAuthTestServer(t)

	register := map[string]string{
		"username":         "Maria",
		"email":            "maria@example.com",
		"password":         "correct-horse",
		"confirm_password": "correct-horse",
		"first_name":       "Maria",
	}

	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", register)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	require.True(t, resp.Success)
	user, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "maria", user["username"])
	assert.Equal(t, "customer", user["role"])

	t.Run("duplicate username rejected", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", register)
		require.Equal(t, http.StatusConflict, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ALREADY_EXISTS", resp.Error.Code)
	})

	t.Run("mismatched password confirmation rejected", func(t *testing.T) {
		bad := map[string]string{
			"username":         "other",
			"email":            "other@example.com",
			"password":         "correct-horse",
			"confirm_password": "wrong-horse",
		}
		w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	var accessToken, refreshToken string
	t.Run("login returns token pair", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"username": "maria",
			"password": "correct-horse",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeResponse(t, w)
		data, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		tokens, ok := data["tokens"].(map[string]interface{})
		require.True(t, ok)
		accessToken, _ = tokens["access_token"].(string)
		refreshToken, _ = tokens["refresh_token"].(string)
		require.NotEmpty(t, accessToken)
		require.NotEmpty(t, refreshToken)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"username": "maria",
			"password": "not-it",
		})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
	})

	t.Run("me requires authentication", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me returns profile", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/auth/me", accessToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeResponse(t, w)
		data, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "maria@example.com", data["email"])
	})

	t.Run("profile update", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPut, "/api/v1/auth/me", accessToken, map[string]string{
			"first_name": "Maria",
			"last_name":  "Reyes",
			"phone":      "+15550100",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeResponse(t, w)
		data, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Reyes", data["last_name"])
	})

	t.Run("refresh rotates tokens", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
			"refresh_token": refreshToken,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("logout revokes the access token", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/logout", accessToken, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, engine, http.MethodGet, "/api/v1/auth/me", accessToken, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "TOKEN_REVOKED", resp.Error.Code)
	})
}
