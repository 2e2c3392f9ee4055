package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/ytannounce/internal/video"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("YOUTUBE_CHANNEL_ID", "UC09QwXpdgjgd6l8BFBRlZMw")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxItems)
	assert.Equal(t, TargetTwitter, cfg.PublishTarget)
	assert.Equal(t, "file", cfg.StateDriver)
	assert.Equal(t, "Pacific/Auckland", cfg.Location.String())
	assert.Equal(t, "#live", cfg.CategoryTags[video.Live])
	assert.Empty(t, cfg.StaticTags)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("YOUTUBE_CHANNEL_ID", "UCx")
	t.Setenv("MAX_ITEMS", "10")
	t.Setenv("PUBLISH_TARGET", "Telegram")
	t.Setenv("STATIC_TAGS", "#gaming, #chill  #cozy")
	t.Setenv("TAG_PUBLISHED", "#vod")
	t.Setenv("TIME_ZONE", "Europe/Copenhagen")
	t.Setenv("RETRY_DELAY", "500ms")
	t.Setenv("STATE_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MaxItems)
	assert.Equal(t, TargetTelegram, cfg.PublishTarget)
	assert.Equal(t, []string{"#gaming", "#chill", "#cozy"}, cfg.StaticTags)
	assert.Equal(t, "#vod", cfg.CategoryTags[video.Published])
	assert.Equal(t, "Europe/Copenhagen", cfg.Location.String())
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, "sqlite", cfg.State().Driver)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load()
	assert.ErrorContains(t, err, "YOUTUBE_CHANNEL_ID")

	t.Setenv("YOUTUBE_CHANNEL_ID", "UCx")
	t.Setenv("PUBLISH_TARGET", "mastodon")
	_, err = Load()
	assert.ErrorContains(t, err, "PUBLISH_TARGET")

	t.Setenv("PUBLISH_TARGET", "twitter")
	t.Setenv("STATE_DRIVER", "postgres")
	_, err = Load()
	assert.ErrorContains(t, err, "STATE_DSN")

	t.Setenv("STATE_DRIVER", "file")
	t.Setenv("TIME_ZONE", "Mars/Olympus")
	_, err = Load()
	assert.ErrorContains(t, err, "TIME_ZONE")
}

func TestValidatePublish(t *testing.T) {
	t.Setenv("YOUTUBE_CHANNEL_ID", "UCx")
	t.Setenv("TWITTER_API_KEY", "k")
	t.Setenv("TWITTER_ACCESS_TOKEN", "t")

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.ValidatePublish()
	assert.EqualError(t, err, "missing credentials for twitter: TWITTER_API_SECRET, TWITTER_ACCESS_SECRET")

	cfg.PublishTarget = TargetTelegram
	cfg.TelegramToken = "x"
	cfg.TelegramChatID = "@c"
	assert.NoError(t, cfg.ValidatePublish())
}
