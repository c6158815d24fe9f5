// internal/interfaces/http/handlers/cache.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/catalog"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/content"
	"github.com/xavisavvy/toa-website-sub001/internal/interfaces/http/middleware"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/cache"
)

// CacheHandler handles the ops cache purge endpoint
type CacheHandler struct {
	store  cache.Store
	logger *logrus.Logger
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(store cache.Store, logger *logrus.Logger) *CacheHandler {
	return &CacheHandler{
		store:  store,
		logger: logger,
	}
}

// purgeableNamespaces are the upstream caches ops may flush. Cart sessions
// live under their own prefix and are deliberately not purgeable here.
var purgeableNamespaces = map[string]bool{
	catalog.CacheNamespace:   true,
	content.YouTubeNamespace: true,
	content.PodcastNamespace: true,
}

// Purge handles DELETE /ops/cache/:namespace, forcing the next read of that
// upstream to refetch.
func (h *CacheHandler) Purge(c *gin.Context) {
	namespace := c.Param("namespace")
	if !purgeableNamespaces[namespace] {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Unknown cache namespace",
		})
		return
	}

	if err := h.store.Purge(c.Request.Context(), namespace); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to purge cache",
		})
		return
	}

	email, _ := middleware.GetOpsEmailFromContext(c)
	h.logger.WithFields(logrus.Fields{
		"namespace": namespace,
		"ops_email": email,
	}).Info("Cache namespace purged")

	c.JSON(http.StatusOK, gin.H{
		"message": "Cache purged successfully",
		"data": gin.H{
			"namespace": namespace,
		},
	})
}
