// internal/domain/content/podcast.go
package content

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// PodcastClient fetches and parses the podcast RSS feed.
type PodcastClient struct {
	feedURL string
	parser  *gofeed.Parser
}

// NewPodcastClient creates a podcast feed client.
func NewPodcastClient(feedURL string) *PodcastClient {
	return &PodcastClient{
		feedURL: feedURL,
		parser:  gofeed.NewParser(),
	}
}

// Episodes fetches the feed and maps its items.
func (c *PodcastClient) Episodes(ctx context.Context) ([]PodcastEpisode, error) {
	feed, err := c.parser.ParseURLWithContext(c.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch podcast feed: %w", err)
	}

	episodes := make([]PodcastEpisode, 0, len(feed.Items))
	for _, item := range feed.Items {
		episode := PodcastEpisode{
			GUID:        item.GUID,
			Title:       item.Title,
			Description: item.Description,
			Link:        item.Link,
		}
		if item.PublishedParsed != nil {
			episode.PublishedAt = *item.PublishedParsed
		}
		if len(item.Enclosures) > 0 {
			episode.AudioURL = item.Enclosures[0].URL
		}
		if item.ITunesExt != nil {
			episode.Duration = item.ITunesExt.Duration
		}
		episodes = append(episodes, episode)
	}

	return episodes, nil
}
