// internal/domain/content/service.go
package content

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavisavvy/toa-website-sub001/internal/config"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/cache"
)

// Cache namespaces for the two upstream feeds.
const (
	YouTubeNamespace = "youtube"
	PodcastNamespace = "podcast"
)

const podcastFeedKey = "feed"

// episodeSource abstracts the YouTube client so tests can fake the upstream.
type episodeSource interface {
	PlaylistEpisodes(ctx context.Context, playlistID string) ([]Episode, error)
}

// podcastSource abstracts the RSS client.
type podcastSource interface {
	Episodes(ctx context.Context) ([]PodcastEpisode, error)
}

// Service serves episode and podcast reads through the expiring cache,
// falling back to stale entries when the upstream feed is down.
type Service struct {
	youtube      episodeSource
	podcast      podcastSource
	videoCache   *cache.Cache
	podcastCache *cache.Cache
	videoTTL     time.Duration
	podcastTTL   time.Duration
	logger       *logrus.Logger
	now          func() time.Time
}

// NewService creates a content service.
func NewService(youtube *YouTubeClient, podcast *PodcastClient, store cache.Store, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		youtube:      youtube,
		podcast:      podcast,
		videoCache:   cache.New(store, YouTubeNamespace),
		podcastCache: cache.New(store, PodcastNamespace),
		videoTTL:     cfg.Cache.VideoTTL,
		podcastTTL:   cfg.Cache.PodcastTTL,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// GetEpisodes returns the episodes of a playlist, cached per playlist id.
func (s *Service) GetEpisodes(ctx context.Context, playlistID string) ([]Episode, error) {
	var cached []Episode
	timestamp, found, err := s.videoCache.GetJSON(ctx, playlistID, &cached)
	if err != nil {
		s.logger.WithError(err).Warn("Episode cache read failed")
	}
	if found && cache.IsFresh(timestamp, s.videoTTL, s.now()) {
		return cached, nil
	}

	episodes, fetchErr := s.youtube.PlaylistEpisodes(ctx, playlistID)
	if fetchErr != nil {
		if found {
			s.logger.WithError(fetchErr).WithField("playlist_id", playlistID).Warn("YouTube unavailable, serving stale episodes")
			return cached, nil
		}
		return nil, fmt.Errorf("failed to load episodes: %w", fetchErr)
	}

	if err := s.videoCache.SetJSON(ctx, playlistID, episodes); err != nil {
		s.logger.WithError(err).Warn("Episode cache write failed")
	}
	return episodes, nil
}

// GetPodcastEpisodes returns the podcast feed, cached.
func (s *Service) GetPodcastEpisodes(ctx context.Context) ([]PodcastEpisode, error) {
	var cached []PodcastEpisode
	timestamp, found, err := s.podcastCache.GetJSON(ctx, podcastFeedKey, &cached)
	if err != nil {
		s.logger.WithError(err).Warn("Podcast cache read failed")
	}
	if found && cache.IsFresh(timestamp, s.podcastTTL, s.now()) {
		return cached, nil
	}

	episodes, fetchErr := s.podcast.Episodes(ctx)
	if fetchErr != nil {
		if found {
			s.logger.WithError(fetchErr).Warn("Podcast feed unavailable, serving stale episodes")
			return cached, nil
		}
		return nil, fmt.Errorf("failed to load podcast feed: %w", fetchErr)
	}

	if err := s.podcastCache.SetJSON(ctx, podcastFeedKey, episodes); err != nil {
		s.logger.WithError(err).Warn("Podcast cache write failed")
	}
	return episodes, nil
}
