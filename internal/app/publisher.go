package app

import (
	"context"

	"github.com/deusflow/ytannounce/internal/config"
	"github.com/deusflow/ytannounce/internal/logger"
	"github.com/deusflow/ytannounce/internal/publish"
	"github.com/deusflow/ytannounce/internal/retry"
)

// unconfigured stands in for a target whose credentials are missing. Every
// publish fails with the validation error.
type unconfigured struct {
	name string
	err  error
}

func (u unconfigured) Name() string { return u.name }

func (u unconfigured) Publish(context.Context, string) publish.Result {
	return publish.Failed(u.err)
}

// newPublisher builds the configured target. When credentials are missing
// it returns an unconfigured publisher and the validation error.
func newPublisher(cfg *config.Config) (publish.Publisher, error) {
	if err := cfg.ValidatePublish(); err != nil {
		return unconfigured{name: cfg.PublishTarget, err: err}, err
	}

	rc := retry.RetryConfig{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay, Backoff: true}
	switch cfg.PublishTarget {
	case config.TargetTelegram:
		tg, err := publish.NewTelegram(publish.TelegramConfig{
			Token:   cfg.TelegramToken,
			ChatID:  cfg.TelegramChatID,
			APIURL:  cfg.TelegramAPIURL,
			Timeout: cfg.RequestTimeout,
			Retry:   rc,
		}, logger.With("telegram"))
		if err != nil {
			return unconfigured{name: cfg.PublishTarget, err: err}, err
		}
		return tg, nil
	default:
		return publish.NewTwitter(publish.TwitterConfig{
			APIKey:       cfg.TwitterAPIKey,
			APISecret:    cfg.TwitterAPISecret,
			AccessToken:  cfg.TwitterAccessToken,
			AccessSecret: cfg.TwitterAccessSecret,
			Endpoint:     cfg.TwitterEndpoint,
			Timeout:      cfg.RequestTimeout,
			Retry:        rc,
		}, logger.With("twitter")), nil
	}
}
