package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/army-personnel-api/internal/models"
	appErrors "github.com/noah-isme/army-personnel-api/pkg/errors"
	"github.com/noah-isme/army-personnel-api/pkg/response"
)

// ContextActorKey is the gin context key storing the authenticated admin.
const ContextActorKey = "currentActor"

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Actor, error)
}

// Session protects routes by requiring a live session. The token is read from the
// Authorization bearer header first, then from the session cookie.
func Session(auth authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := sessionToken(c, cookieName)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		actor, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextActorKey, actor)
		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
			return cookie, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrUnauthorized, "")
}

// ActorFromContext returns the admin resolved by Session.
func ActorFromContext(c *gin.Context) (*models.Actor, bool) {
	value, exists := c.Get(ContextActorKey)
	if !exists {
		return nil, false
	}
	actor, ok := value.(*models.Actor)
	return actor, ok && actor != nil
}
