// Package config loads the announcer settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/deusflow/ytannounce/internal/state"
	"github.com/deusflow/ytannounce/internal/video"
)

// Publish targets.
const (
	TargetTwitter  = "twitter"
	TargetTelegram = "telegram"
)

type Config struct {
	// Content source
	ChannelID   string
	APIKey      string // YouTube Data API key; empty means RSS
	FeedURL     string
	ScrapeLive  bool
	MaxItems    int
	APIEndpoint string

	// Publish target
	PublishTarget       string
	TwitterAPIKey       string
	TwitterAPISecret    string
	TwitterAccessToken  string
	TwitterAccessSecret string
	TwitterEndpoint     string
	TelegramToken       string
	TelegramChatID      string
	TelegramAPIURL      string

	// State
	StateDriver string
	StateDir    string
	StateDSN    string
	RedisAddr   string
	RedisPrefix string

	// Message
	TemplatesPath string
	StaticTags    []string
	CategoryTags  map[video.Category]string
	TimeZone      string
	Location      *time.Location

	// App settings
	Debug          bool
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	WatchSchedule  string
	MonitoringPort string
}

// Load reads and validates the configuration.
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Parse reads the environment without validating it beyond the time zone.
func Parse() (*Config, error) {
	cfg := &Config{
		// Default values
		MaxItems:       5,
		PublishTarget:  TargetTwitter,
		StateDriver:    "file",
		StateDir:       ".",
		TimeZone:       "Pacific/Auckland",
		RequestTimeout: 30 * time.Second,
		RetryAttempts:  3,
		RetryDelay:     2 * time.Second,
		WatchSchedule:  "@every 10m",
		MonitoringPort: "8080",
	}

	cfg.ChannelID = strings.TrimSpace(os.Getenv("YOUTUBE_CHANNEL_ID"))
	cfg.APIKey = os.Getenv("YOUTUBE_API_KEY")
	cfg.APIEndpoint = os.Getenv("YOUTUBE_API_ENDPOINT")
	cfg.FeedURL = os.Getenv("FEED_URL")
	cfg.ScrapeLive = os.Getenv("FEED_SCRAPE_LIVE") == "true"
	cfg.MaxItems = getEnvIntOrDefault("MAX_ITEMS", cfg.MaxItems)

	cfg.PublishTarget = strings.ToLower(getEnvOrDefault("PUBLISH_TARGET", cfg.PublishTarget))
	cfg.TwitterAPIKey = os.Getenv("TWITTER_API_KEY")
	cfg.TwitterAPISecret = os.Getenv("TWITTER_API_SECRET")
	cfg.TwitterAccessToken = os.Getenv("TWITTER_ACCESS_TOKEN")
	cfg.TwitterAccessSecret = os.Getenv("TWITTER_ACCESS_SECRET")
	cfg.TwitterEndpoint = os.Getenv("TWITTER_ENDPOINT")
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")
	cfg.TelegramAPIURL = os.Getenv("TELEGRAM_API_URL")

	cfg.StateDriver = strings.ToLower(getEnvOrDefault("STATE_DRIVER", cfg.StateDriver))
	cfg.StateDir = getEnvOrDefault("STATE_DIR", cfg.StateDir)
	cfg.StateDSN = os.Getenv("STATE_DSN")
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPrefix = os.Getenv("REDIS_PREFIX")

	cfg.TemplatesPath = os.Getenv("TEMPLATES_PATH")
	cfg.StaticTags = splitTags(os.Getenv("STATIC_TAGS"))
	cfg.CategoryTags = map[video.Category]string{
		video.Live:      getEnvOrDefault("TAG_LIVE", "#live"),
		video.Upcoming:  getEnvOrDefault("TAG_UPCOMING", "#upcoming"),
		video.Published: getEnvOrDefault("TAG_PUBLISHED", "#newvideo"),
	}
	cfg.TimeZone = getEnvOrDefault("TIME_ZONE", cfg.TimeZone)

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}
	cfg.RequestTimeout = getEnvDurationOrDefault("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)
	cfg.RetryDelay = getEnvDurationOrDefault("RETRY_DELAY", cfg.RetryDelay)
	cfg.WatchSchedule = getEnvOrDefault("WATCH_SCHEDULE", cfg.WatchSchedule)
	cfg.MonitoringPort = getEnvOrDefault("MONITORING_PORT", cfg.MonitoringPort)

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return cfg, fmt.Errorf("TIME_ZONE %q: %w", cfg.TimeZone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

// splitTags accepts comma or whitespace separated tags.
func splitTags(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// Validate checks what every command needs. Publishing credentials are
// checked separately by ValidatePublish.
func (c *Config) Validate() error {
	if c.ChannelID == "" {
		return fmt.Errorf("YOUTUBE_CHANNEL_ID is required")
	}
	if c.PublishTarget != TargetTwitter && c.PublishTarget != TargetTelegram {
		return fmt.Errorf("PUBLISH_TARGET must be 'twitter' or 'telegram'")
	}
	return c.ValidateState()
}

// ValidateState checks the state backend settings.
func (c *Config) ValidateState() error {
	switch c.StateDriver {
	case "file", "sqlite", "redis", "postgres":
	default:
		return fmt.Errorf("STATE_DRIVER must be one of file, sqlite, postgres, redis")
	}
	if c.StateDriver == "postgres" && c.StateDSN == "" {
		return fmt.Errorf("STATE_DSN is required for the postgres state driver")
	}
	if c.StateDriver == "redis" && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required for the redis state driver")
	}
	return nil
}

// ValidatePublish checks the credentials of the configured target.
func (c *Config) ValidatePublish() error {
	var missing []string
	for _, v := range c.CredentialVars() {
		if !v.Present {
			missing = append(missing, v.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing credentials for %s: %s", c.PublishTarget, strings.Join(missing, ", "))
	}
	return nil
}

// CredentialVar reports whether one credential variable is set.
type CredentialVar struct {
	Name    string
	Present bool
}

// CredentialVars lists the credential variables of the configured target.
func (c *Config) CredentialVars() []CredentialVar {
	if c.PublishTarget == TargetTelegram {
		return []CredentialVar{
			{"TELEGRAM_TOKEN", c.TelegramToken != ""},
			{"TELEGRAM_CHAT_ID", c.TelegramChatID != ""},
		}
	}
	return []CredentialVar{
		{"TWITTER_API_KEY", c.TwitterAPIKey != ""},
		{"TWITTER_API_SECRET", c.TwitterAPISecret != ""},
		{"TWITTER_ACCESS_TOKEN", c.TwitterAccessToken != ""},
		{"TWITTER_ACCESS_SECRET", c.TwitterAccessSecret != ""},
	}
}

// State returns the state backend settings.
func (c *Config) State() state.Config {
	return state.Config{
		Driver:      c.StateDriver,
		Dir:         c.StateDir,
		DSN:         c.StateDSN,
		RedisAddr:   c.RedisAddr,
		RedisPrefix: c.RedisPrefix,
	}
}
