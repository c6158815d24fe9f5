// internal/domain/content/entity.go
package content

import "time"

// Episode is one video from a YouTube playlist (series episodes, animatics,
// behind-the-scenes reels).
type Episode struct {
	VideoID      string    `json:"video_id"`
	PlaylistID   string    `json:"playlist_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Position     int       `json:"position"`
	PublishedAt  time.Time `json:"published_at"`
}

// PodcastEpisode is one item from the podcast RSS feed.
type PodcastEpisode struct {
	GUID        string    `json:"guid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AudioURL    string    `json:"audio_url"`
	Link        string    `json:"link"`
	Duration    string    `json:"duration,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}
