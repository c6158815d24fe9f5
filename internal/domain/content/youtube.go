// internal/domain/content/youtube.go
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/xavisavvy/toa-website-sub001/internal/config"
)

// YouTubeClient fetches playlist contents from the YouTube Data API v3.
type YouTubeClient struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// NewYouTubeClient creates a YouTube Data API client from config.
func NewYouTubeClient(cfg *config.Config) *YouTubeClient {
	return &YouTubeClient{
		apiKey:     cfg.External.YouTube.APIKey,
		baseURL:    cfg.External.YouTube.BaseURL,
		maxResults: cfg.External.YouTube.MaxResults,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type playlistItemsResponse struct {
	Items []struct {
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
			Position    int    `json:"position"`
			PlaylistID  string `json:"playlistId"`
			Thumbnails  struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
			ResourceID struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

// PlaylistEpisodes fetches the episodes of one playlist.
func (c *YouTubeClient) PlaylistEpisodes(ctx context.Context, playlistID string) ([]Episode, error) {
	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("playlistId", playlistID)
	query.Set("maxResults", strconv.Itoa(c.maxResults))
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/playlistItems?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call YouTube: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("YouTube API call failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed playlistItemsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse playlist items: %w", err)
	}

	episodes := make([]Episode, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)

		thumbnail := item.Snippet.Thumbnails.High.URL
		if thumbnail == "" {
			thumbnail = item.Snippet.Thumbnails.Medium.URL
		}

		episodes = append(episodes, Episode{
			VideoID:      item.Snippet.ResourceID.VideoID,
			PlaylistID:   item.Snippet.PlaylistID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: thumbnail,
			Position:     item.Snippet.Position,
			PublishedAt:  publishedAt,
		})
	}

	return episodes, nil
}
