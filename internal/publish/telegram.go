package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v4"

	"github.com/deusflow/ytannounce/internal/retry"
)

// TelegramConfig addresses one chat or channel.
type TelegramConfig struct {
	Token   string
	ChatID  string // numeric id or @channelname
	APIURL  string // defaults to the public Bot API
	Timeout time.Duration
	Retry   retry.RetryConfig
}

// Telegram posts messages through the Bot API.
type Telegram struct {
	cfg    TelegramConfig
	bot    *tele.Bot
	logger zerolog.Logger
}

type chatRecipient string

func (c chatRecipient) Recipient() string { return string(c) }

// NewTelegram builds the bot client without contacting the API.
func NewTelegram(cfg TelegramConfig, logger zerolog.Logger) (*Telegram, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	bot, err := tele.NewBot(tele.Settings{
		Token:   cfg.Token,
		URL:     cfg.APIURL,
		Client:  &http.Client{Timeout: cfg.Timeout},
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Telegram{cfg: cfg, bot: bot, logger: logger}, nil
}

func (t *Telegram) Name() string { return "telegram" }

// Publish sends text as a plain message with link preview enabled.
func (t *Telegram) Publish(ctx context.Context, text string) Result {
	var msg *tele.Message
	attempt := 0
	err := retry.WithRetry(ctx, t.cfg.Retry, func() error {
		attempt++
		var err error
		msg, err = t.bot.Send(chatRecipient(t.cfg.ChatID), text)
		if err == nil {
			return nil
		}
		t.logger.Warn().Err(err).Int("attempt", attempt).Msg("telegram send failed")

		var apiErr *tele.Error
		if errors.As(err, &apiErr) && apiErr.Code != http.StatusTooManyRequests && apiErr.Code < 500 {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		var apiErr *tele.Error
		if errors.As(err, &apiErr) {
			return Result{Errors: []APIError{{Code: strconv.Itoa(apiErr.Code), Message: apiErr.Description}}}
		}
		return Failed(err)
	}

	res := Result{OK: true}
	if msg != nil {
		res.ID = strconv.Itoa(msg.ID)
	}
	return res
}
