package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// RoleConfig holds configuration for the role policy middleware
type RoleConfig struct {
	Logger *zap.Logger
}

// RequireAction creates middleware that admits only roles the access policy
// grants the given action. Denial is always 403, never a server fault.
func RequireAction(action identity.Action) gin.HandlerFunc {
	return RequireActionWithConfig(action, RoleConfig{})
}

// RequireActionWithConfig creates the role policy middleware with custom config
func RequireActionWithConfig(action identity.Action, cfg RoleConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		role := identity.Role(claims.Role)
		if !identity.Can(role, action) {
			if cfg.Logger != nil {
				cfg.Logger.Warn("action denied by role policy",
					zap.String("user_id", claims.UserID),
					zap.String("role", claims.Role),
					zap.String("action", string(action)),
					zap.String("path", c.Request.URL.Path),
				)
			}
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Not allowed to perform this action"))
			return
		}

		c.Next()
	}
}

// RequireAnyAction admits roles granted at least one of the given actions
func RequireAnyAction(actions ...identity.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		role := identity.Role(claims.Role)
		for _, action := range actions {
			if identity.Can(role, action) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponse(dto.ErrCodeForbidden, "Not allowed to perform this action"))
	}
}
