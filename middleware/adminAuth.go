package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware guards admin endpoints with the single shared
// credential, accepted either as a bearer token or a ?token= query value.
func AdminAuthMiddleware(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminToken == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Admin access is not configured"})
			return
		}

		supplied := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if supplied == "" || supplied == c.GetHeader("Authorization") {
			supplied = c.Query("token")
		}

		if subtle.ConstantTimeCompare([]byte(supplied), []byte(adminToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized admin access"})
			return
		}

		c.Set("isAdmin", true)
		c.Next()
	}
}
