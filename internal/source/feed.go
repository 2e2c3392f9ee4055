package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/deusflow/ytannounce/internal/video"
)

// DefaultFeedURL is the public uploads feed of a channel.
const DefaultFeedURL = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// Feed reads the channel RSS feed. The feed carries no broadcast details,
// so unless ScrapeLive is set every item classifies as published.
type Feed struct {
	urlTemplate string
	scrapeLive  bool
	client      *http.Client
	logger      zerolog.Logger
}

// NewFeed returns a feed source. urlTemplate may contain %s for the channel
// id; an empty template uses DefaultFeedURL.
func NewFeed(urlTemplate string, scrapeLive bool, client *http.Client, logger zerolog.Logger) *Feed {
	if strings.TrimSpace(urlTemplate) == "" {
		urlTemplate = DefaultFeedURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Feed{
		urlTemplate: urlTemplate,
		scrapeLive:  scrapeLive,
		client:      client,
		logger:      logger,
	}
}

func (f *Feed) feedURL(channelID string) string {
	if strings.Contains(f.urlTemplate, "%s") {
		return fmt.Sprintf(f.urlTemplate, channelID)
	}
	return f.urlTemplate
}

// Recent returns up to max feed entries in feed order.
func (f *Feed) Recent(ctx context.Context, channelID string, max int) ([]video.Item, error) {
	parser := gofeed.NewParser()
	parser.Client = f.client

	url := f.feedURL(channelID)
	feed, err := parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("error parsing feed %s: %w", url, err)
	}

	items := make([]video.Item, 0, len(feed.Items))
	for _, fi := range feed.Items {
		if max > 0 && len(items) >= max {
			break
		}
		it, ok := feedItem(fi)
		if !ok {
			continue
		}
		items = append(items, it)
	}
	f.logger.Debug().Int("count", len(items)).Str("url", url).Msg("loaded feed")

	if f.scrapeLive {
		for i := range items {
			details, err := ScrapeLiveDetails(ctx, f.client, items[i].Link)
			if err != nil {
				f.logger.Debug().Err(err).Str("id", items[i].ID).Msg("watch page not usable")
				continue
			}
			items[i].Live = details
		}
	}
	return items, nil
}

func feedItem(fi *gofeed.Item) (video.Item, bool) {
	id := videoID(fi)
	if id == "" {
		return video.Item{}, false
	}
	it := video.Item{
		ID:    id,
		Title: strings.TrimSpace(fi.Title),
		Link:  fi.Link,
	}
	if it.Link == "" {
		it.Link = WatchURL(id)
	}
	if fi.PublishedParsed != nil {
		it.PublishedAt = *fi.PublishedParsed
	} else if fi.UpdatedParsed != nil {
		it.PublishedAt = *fi.UpdatedParsed
	}
	return it, true
}

// videoID prefers the yt:videoId extension and falls back to the entry id,
// which YouTube writes as "yt:video:<id>".
func videoID(fi *gofeed.Item) string {
	if yt, ok := fi.Extensions["yt"]; ok {
		if ext := yt["videoId"]; len(ext) > 0 && ext[0].Value != "" {
			return ext[0].Value
		}
	}
	return strings.TrimPrefix(fi.GUID, "yt:video:")
}
