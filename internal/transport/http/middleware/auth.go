package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vista/internal/model"
	"vista/internal/transport/http/response"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	ContextTokenKey    = "auth_token"
)

// TokenResolver maps an opaque bearer token to its owning user id.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (uint, error)
}

// UserLookup loads the authenticated user for downstream handlers.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
}

// AuthToken authenticates requests carrying "Authorization: Token <value>"
// or "Authorization: Bearer <value>" and stashes the user in the context.
func AuthToken(resolver TokenResolver, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing or malformed authorization header")
			c.Abort()
			return
		}

		userID, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil || user == nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUsernameKey, user.Username)
		c.Set(ContextTokenKey, token)
		c.Next()
	}
}

func extractToken(header string) string {
	header = strings.TrimSpace(header)
	for _, prefix := range []string{"Token ", "Bearer "} {
		if strings.HasPrefix(header, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(header, prefix))
		}
	}
	return ""
}
