package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"restaurant_pos/internal/models"
)

type identityKey struct{}

const ginIdentityKey = "identity"

// SetIdentity attaches the caller to both the gin context and the request
// context so services reached through either can read it.
func SetIdentity(c *gin.Context, id models.Identity) {
	c.Set(ginIdentityKey, id)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), identityKey{}, id))
}

// IdentityFrom returns the caller resolved by the gateway. ok is false on
// public routes.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(ginIdentityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(models.Identity)
	return id, ok
}
