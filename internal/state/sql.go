package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// sqlKV keeps all keys in one table. The dialect only differs in
// placeholders and column types.
type sqlKV struct {
	db *sql.DB
	q  sqlQueries
}

type sqlQueries struct {
	schema string
	get    string
	set    string
}

const stateTable = "ytannounce_state"

var sqliteQueries = sqlQueries{
	schema: `CREATE TABLE IF NOT EXISTS ` + stateTable + ` (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	get: `SELECT value FROM ` + stateTable + ` WHERE key = ?`,
	set: `INSERT INTO ` + stateTable + ` (key, value, updated_at) VALUES (?, ?, strftime('%s','now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
}

var postgresQueries = sqlQueries{
	schema: `CREATE TABLE IF NOT EXISTS ` + stateTable + ` (
		key VARCHAR(128) PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	get: `SELECT value FROM ` + stateTable + ` WHERE key = $1`,
	set: `INSERT INTO ` + stateTable + ` (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
}

func newSQLKV(ctx context.Context, db *sql.DB, q sqlQueries) (*sqlKV, error) {
	if _, err := db.ExecContext(ctx, q.schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &sqlKV{db: db, q: q}, nil
}

func (s *sqlKV) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, nil
}

func (s *sqlKV) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.q.set, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *sqlKV) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
