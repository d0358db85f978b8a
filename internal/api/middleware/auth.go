package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/motolog/motolog/internal/session"
)

const riderKey = "rider"

// TokenVerifier turns a bearer token into the rider it belongs to.
type TokenVerifier interface {
	Verify(token string) (session.Rider, error)
}

// Authenticate verifies the bearer token and puts the rider into the gin and request contexts.
// Websocket clients cannot set headers, so a "token" query parameter is accepted as well.
func Authenticate(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
				return
			}
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		rider, err := v.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(riderKey, rider)
		c.Request = c.Request.WithContext(session.WithRider(c.Request.Context(), rider))
		c.Next()
	}
}

// Rider returns the rider set by Authenticate.
func Rider(c *gin.Context) (session.Rider, bool) {
	v, ok := c.Get(riderKey)
	if !ok {
		return session.Rider{}, false
	}
	r, ok := v.(session.Rider)
	return r, ok
}
