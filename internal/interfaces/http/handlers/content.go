// internal/interfaces/http/handlers/content.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xavisavvy/toa-website-sub001/internal/config"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/content"
)

// ContentHandler handles episode and podcast endpoints
type ContentHandler struct {
	contentService *content.Service
	config         *config.Config
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentService *content.Service, cfg *config.Config) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		config:         cfg,
	}
}

// ListEpisodes handles GET /content/episodes. Without a playlist_id query
// parameter it serves every configured playlist; partial upstream failures
// drop that playlist from the response rather than failing the page.
func (h *ContentHandler) ListEpisodes(c *gin.Context) {
	if playlistID := c.Query("playlist_id"); playlistID != "" {
		episodes, err := h.contentService.GetEpisodes(c.Request.Context(), playlistID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Episodes are temporarily unavailable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Episodes retrieved successfully",
			"data": gin.H{
				"playlists": gin.H{playlistID: episodes},
			},
		})
		return
	}

	playlists := make(map[string][]content.Episode, len(h.config.External.YouTube.PlaylistIDs))
	for _, playlistID := range h.config.External.YouTube.PlaylistIDs {
		episodes, err := h.contentService.GetEpisodes(c.Request.Context(), playlistID)
		if err != nil {
			continue
		}
		playlists[playlistID] = episodes
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Episodes retrieved successfully",
		"data": gin.H{
			"playlists": playlists,
		},
	})
}

// GetPodcast handles GET /content/podcast
func (h *ContentHandler) GetPodcast(c *gin.Context) {
	episodes, err := h.contentService.GetPodcastEpisodes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Podcast feed is temporarily unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Podcast episodes retrieved successfully",
		"data": gin.H{
			"episodes": episodes,
			"count":    len(episodes),
		},
	})
}
