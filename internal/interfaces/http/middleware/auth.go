// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xavisavvy/toa-website-sub001/internal/config"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/auth"
)

// OpsAuth creates the ops token authentication middleware. Everything under
// the ops API (flag overrides, order and inquiry listings) sits behind it.
func OpsAuth(cfg *config.Config) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("ops_email", claims.Email)
		c.Next()
	}
}

// GetOpsEmailFromContext extracts the authenticated ops email from gin
// context
func GetOpsEmailFromContext(c *gin.Context) (string, bool) {
	email, exists := c.Get("ops_email")
	if !exists {
		return "", false
	}
	return email.(string), true
}
