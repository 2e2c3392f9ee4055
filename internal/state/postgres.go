package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
)

// OpenPostgres connects to a PostgreSQL server and makes sure the state
// table exists.
func OpenPostgres(ctx context.Context, dsn string) (KV, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("STATE_DSN is required for the postgres driver")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	kv, err := newSQLKV(ctx, db, postgresQueries)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return kv, nil
}
