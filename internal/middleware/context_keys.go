package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/openbooks-app/openbooks/internal/core/domain"
)

// identityKey is the key used to store the resolved caller identity.
const identityKey = contextKey("identity")

// IdentityFromContext retrieves the resolved caller identity from a standard
// context. The boolean reports whether the auth middleware ran.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

// GetIdentityFromContext retrieves the resolved caller identity from the Gin
// context.
func GetIdentityFromContext(c *gin.Context) (domain.Identity, bool) {
	return IdentityFromContext(c.Request.Context())
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	identity, ok := GetIdentityFromContext(c)
	if !ok || identity.UserID == "" {
		return "", false
	}
	return identity.UserID, true
}
