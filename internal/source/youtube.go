package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/deusflow/ytannounce/internal/video"
)

// YouTube reads a channel's uploads playlist through the Data API v3.
type YouTube struct {
	svc     *youtube.Service
	timeout time.Duration
	logger  zerolog.Logger
}

// NewYouTube creates the API client.
func NewYouTube(ctx context.Context, cfg Config, logger zerolog.Logger) (*YouTube, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.APIEndpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.APIEndpoint))
	}
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}
	return &YouTube{svc: svc, timeout: cfg.Timeout, logger: logger}, nil
}

// Recent returns up to max uploads, newest first, with broadcast details.
func (y *YouTube) Recent(ctx context.Context, channelID string, max int) ([]video.Item, error) {
	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	playlist, err := y.uploadsPlaylist(ctx, channelID)
	if err != nil {
		return nil, err
	}

	pl, err := y.svc.PlaylistItems.List([]string{"contentDetails"}).
		PlaylistId(playlist).
		MaxResults(int64(max)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}

	ids := make([]string, 0, len(pl.Items))
	for _, it := range pl.Items {
		if it.ContentDetails != nil && it.ContentDetails.VideoId != "" {
			ids = append(ids, it.ContentDetails.VideoId)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	vr, err := y.svc.Videos.List([]string{"snippet", "liveStreamingDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to load videos: %w", err)
	}

	byID := make(map[string]*youtube.Video, len(vr.Items))
	for _, v := range vr.Items {
		byID[v.Id] = v
	}

	// Keep playlist order: newest upload first.
	items := make([]video.Item, 0, len(ids))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok || v.Snippet == nil {
			continue
		}
		items = append(items, toItem(v))
	}
	y.logger.Debug().Int("count", len(items)).Str("playlist", playlist).Msg("loaded uploads")
	return items, nil
}

func (y *YouTube) uploadsPlaylist(ctx context.Context, channelID string) (string, error) {
	// Channel ids are "UC" + suffix and their uploads playlist is "UU" + suffix.
	if strings.HasPrefix(channelID, "UC") && len(channelID) > 2 {
		return "UU" + channelID[2:], nil
	}

	resp, err := y.svc.Channels.List([]string{"contentDetails"}).Id(channelID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to look up channel: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil || resp.Items[0].ContentDetails.RelatedPlaylists == nil {
		return "", errors.New("channel not found: " + channelID)
	}
	return resp.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
}

func toItem(v *youtube.Video) video.Item {
	it := video.Item{
		ID:    v.Id,
		Title: v.Snippet.Title,
		Link:  WatchURL(v.Id),
	}
	if t := parseTime(v.Snippet.PublishedAt); t != nil {
		it.PublishedAt = *t
	}
	if d := v.LiveStreamingDetails; d != nil {
		it.Live = &video.LiveDetails{
			ScheduledStart: parseTime(d.ScheduledStartTime),
			ActualStart:    parseTime(d.ActualStartTime),
			ActualEnd:      parseTime(d.ActualEndTime),
		}
	}
	return it
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
