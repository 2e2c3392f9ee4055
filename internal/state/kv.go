package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by KV.Get for a key that was never set.
var ErrNotFound = errors.New("state: key not found")

// KV is the minimal persistence API shared by all backends.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver string // file | sqlite | postgres | redis
	Dir    string // file: state directory; sqlite: directory holding state.db
	DSN    string // sqlite: database path; postgres: connection string

	RedisAddr   string
	RedisPrefix string
}

// Open initializes the configured backend.
func Open(ctx context.Context, cfg Config) (KV, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "file":
		return OpenFile(cfg.Dir)
	case "sqlite", "sqlite3":
		return OpenSQLite(ctx, sqlitePath(cfg))
	case "postgres", "postgresql":
		return OpenPostgres(ctx, cfg.DSN)
	case "redis":
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown state driver: %s", driver)
	}
}
