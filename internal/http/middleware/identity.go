package middleware

import (
	"net/http"
	"strings"

	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

const UserIDKey = "user_id"

// Identity puts the caller's user id in the gin context under UserIDKey.
// Without a token manager every caller is defaultUserID; with one, a valid
// bearer token is required.
func Identity(tokens *service.TokenManager, defaultUserID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.Set(UserIDKey, defaultUserID)
			c.Next()
			return
		}

		raw := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}

		userID, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the id stored by Identity.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
