// internal/interfaces/http/middleware/flags.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/flags"
)

// FlagContext builds the flag evaluation context for this request.
func FlagContext(c *gin.Context) flags.Context {
	evalCtx := flags.Context{
		RequestID: GetRequestIDFromContext(c),
	}
	if email, ok := GetOpsEmailFromContext(c); ok {
		evalCtx.UserID = email
	}
	return evalCtx
}

// RequireFlag guards a route group behind a feature flag. Disabled features
// answer 404 rather than 403 so the route's existence is not leaked.
func RequireFlag(registry *flags.Registry, flagName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !registry.IsEnabled(flagName, FlagContext(c)) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not found",
				"message": "This feature is not available",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
