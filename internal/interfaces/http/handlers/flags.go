// internal/interfaces/http/handlers/flags.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xavisavvy/toa-website-sub001/internal/interfaces/http/middleware"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/flags"
)

// FlagsHandler handles feature flag endpoints
type FlagsHandler struct {
	registry *flags.Registry
}

// NewFlagsHandler creates a new flags handler
func NewFlagsHandler(registry *flags.Registry) *FlagsHandler {
	return &FlagsHandler{
		registry: registry,
	}
}

// OverrideFlagRequest is the payload for PUT /ops/flags/:name
type OverrideFlagRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// Evaluate handles GET /flags. The frontend bootstraps from this map, so it
// is evaluated against the caller's request context: rollout-bucketed flags
// can differ between callers.
func (h *FlagsHandler) Evaluate(c *gin.Context) {
	evalCtx := middleware.FlagContext(c)

	names := h.registry.Names()
	resolved := make(map[string]bool, len(names))
	for _, name := range names {
		resolved[name] = h.registry.IsEnabled(name, evalCtx)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Flags evaluated successfully",
		"data": gin.H{
			"flags": resolved,
		},
	})
}

// List handles GET /ops/flags, returning full flag definitions.
func (h *FlagsHandler) List(c *gin.Context) {
	definitions := make(map[string]flags.Flag)
	for _, name := range h.registry.Names() {
		if flag, ok := h.registry.Get(name); ok {
			definitions[name] = flag
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Flags retrieved successfully",
		"data": gin.H{
			"flags": definitions,
		},
	})
}

// Override handles PUT /ops/flags/:name
func (h *FlagsHandler) Override(c *gin.Context) {
	name := c.Param("name")

	var req OverrideFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if !h.registry.Override(name, *req.Enabled) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Unknown flag",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Flag overridden successfully",
		"data": gin.H{
			"name":    name,
			"enabled": *req.Enabled,
		},
	})
}

// Reset handles DELETE /ops/flags, restoring the configured defaults.
func (h *FlagsHandler) Reset(c *gin.Context) {
	h.registry.Reset()

	c.JSON(http.StatusOK, gin.H{
		"message": "Flags reset to defaults",
	})
}
