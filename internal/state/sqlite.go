package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

func sqlitePath(cfg Config) string {
	if p := strings.TrimSpace(cfg.DSN); p != "" {
		return p
	}
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "state.db")
}

// OpenSQLite opens (and creates) a state database at path.
func OpenSQLite(ctx context.Context, path string) (KV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	_, _ = db.ExecContext(ctx, "PRAGMA busy_timeout = 5000")

	kv, err := newSQLKV(ctx, db, sqliteQueries)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return kv, nil
}
