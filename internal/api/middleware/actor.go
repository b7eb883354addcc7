package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/gin-gonic/gin"
)

// ActorKey is the gin context key the resolved actor is stored under.
const ActorKey = "actor"

// ActorResolver turns an externally assigned user id into an Actor. The HTTP
// surface trusts its caller (the gateway or the bot) for authentication and
// only resolves the identity; authorization happens in the services.
type ActorResolver interface {
	Resolve(ctx context.Context, userID int64) (domain.Actor, error)
}

// Actor reads the X-User-ID header, resolves it, and aborts with 401 when the
// header is missing or malformed and 403 when the user is unknown or inactive.
func Actor(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-ID header"})
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid X-User-ID header"})
			return
		}

		actor, err := resolver.Resolve(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unknown or inactive user"})
			return
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}
