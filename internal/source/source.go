// Package source fetches the recent items of a YouTube channel.
//
// Two implementations exist: the Data API (needs an API key, returns full
// broadcast details) and the public RSS feed, optionally enriched with the
// broadcast microdata found on each watch page.
package source

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/deusflow/ytannounce/internal/video"
)

// Config selects and configures a source.
type Config struct {
	APIKey      string // Data API key; when empty the RSS feed is used
	APIEndpoint string // override for tests
	FeedURL     string // RSS URL template, %s is the channel id
	ScrapeLive  bool   // enrich feed items from their watch pages
	Timeout     time.Duration
}

// New returns the Data API source when an API key is configured and the feed
// source otherwise.
func New(ctx context.Context, cfg Config, logger zerolog.Logger) (video.Source, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if strings.TrimSpace(cfg.APIKey) != "" {
		return NewYouTube(ctx, cfg, logger)
	}
	client := &http.Client{Timeout: cfg.Timeout}
	return NewFeed(cfg.FeedURL, cfg.ScrapeLive, client, logger), nil
}

// WatchURL is the canonical link of a video.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
