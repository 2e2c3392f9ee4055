package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/rs/zerolog"

	"github.com/deusflow/ytannounce/internal/retry"
)

const defaultTwitterEndpoint = "https://api.twitter.com/2/tweets"

// TwitterConfig holds OAuth 1.0a user-context credentials.
type TwitterConfig struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string

	Endpoint string // defaults to the v2 create-tweet endpoint
	Timeout  time.Duration
	Retry    retry.RetryConfig
}

// Twitter posts tweets through the v2 API.
type Twitter struct {
	cfg    TwitterConfig
	oauth  *oauth1.Config
	token  *oauth1.Token
	logger zerolog.Logger
}

// NewTwitter returns a Twitter publisher.
func NewTwitter(cfg TwitterConfig, logger zerolog.Logger) *Twitter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultTwitterEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Twitter{
		cfg:    cfg,
		oauth:  oauth1.NewConfig(cfg.APIKey, cfg.APISecret),
		token:  oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret),
		logger: logger,
	}
}

func (t *Twitter) Name() string { return "twitter" }

type tweetResponse struct {
	Data *struct {
		ID string `json:"id"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"errors"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// apiFailure carries the parsed error list out of a retry loop.
type apiFailure struct {
	status int
	errs   []APIError
}

func (e *apiFailure) Error() string {
	return fmt.Sprintf("twitter API status %d: %v", e.status, e.errs)
}

// Publish creates one tweet.
func (t *Twitter) Publish(ctx context.Context, text string) Result {
	base := &http.Client{Timeout: t.cfg.Timeout}
	client := t.oauth.Client(context.WithValue(ctx, oauth1.HTTPClient, base), t.token)

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Failed(fmt.Errorf("error make JSON: %w", err))
	}

	var id string
	attempt := 0
	err = retry.WithRetry(ctx, t.cfg.Retry, func() error {
		attempt++
		var err error
		id, err = t.post(ctx, client, body)
		if err != nil && attempt > 1 && isDuplicate(err) {
			// An earlier attempt created the tweet but its response was lost.
			t.logger.Warn().Err(err).Int("attempt", attempt).Msg("tweet already created by a previous attempt")
			id = ""
			return nil
		}
		if err != nil {
			t.logger.Warn().Err(err).Int("attempt", attempt).Msg("tweet attempt failed")
		}
		return err
	})
	if err != nil {
		var af *apiFailure
		if errors.As(err, &af) {
			return Result{Errors: af.errs}
		}
		return Failed(err)
	}
	return Result{OK: true, ID: id}
}

func (t *Twitter) post(ctx context.Context, client *http.Client, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error HTTP request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	var tr tweetResponse
	_ = json.Unmarshal(data, &tr)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && tr.Data != nil && tr.Data.ID != "" {
		return tr.Data.ID, nil
	}

	af := &apiFailure{status: resp.StatusCode, errs: tweetErrors(resp.StatusCode, tr)}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", af
	}
	return "", retry.Permanent(af)
}

// isDuplicate reports a 403 rejecting the text as a duplicate tweet.
func isDuplicate(err error) bool {
	var af *apiFailure
	if !errors.As(err, &af) || af.status != http.StatusForbidden {
		return false
	}
	for _, e := range af.errs {
		if strings.Contains(strings.ToLower(e.Message), "duplicate content") {
			return true
		}
	}
	return false
}

func tweetErrors(status int, tr tweetResponse) []APIError {
	var out []APIError
	for _, e := range tr.Errors {
		ae := APIError{Message: e.Message}
		if e.Code != 0 {
			ae.Code = strconv.Itoa(e.Code)
		}
		out = append(out, ae)
	}
	if tr.Detail != "" {
		out = append(out, APIError{Code: tr.Title, Message: tr.Detail})
	}
	if len(out) == 0 {
		out = append(out, APIError{Code: strconv.Itoa(status), Message: http.StatusText(status)})
	}
	return out
}
