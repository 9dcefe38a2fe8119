package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mailwork-backend/internal/shared/server/respond"
)

const userIDKey = "userId"

// Auth reads caller identity headers and stores identity in context.
// There is no external identity provider; callers present either a stable
// X-User-Id or a self-assigned X-Guest-Id.
func Auth(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		if userID := strings.TrimSpace(c.GetHeader("X-User-Id")); userID != "" {
			c.Set(userIDKey, userID)
			c.Set("isGuest", false)
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
		if guestID == "" {
			if env == "dev" || env == "local" {
				// Dev convenience: anonymous callers share one guest identity.
				c.Set(userIDKey, "guest:dev")
				c.Set("isGuest", true)
				c.Next()
				return
			}
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}

		c.Set(userIDKey, "guest:"+guestID)
		c.Set("isGuest", true)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
