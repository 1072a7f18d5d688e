package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoDatabaseURL is returned by Open when neither the argument nor the
// environment names a database.
var ErrNoDatabaseURL = errors.New("no database url: set DATABASE_URL")

// a run is written by a single CLI invocation
const maxConns = 4

// poolConfig resolves dbURL, falling back to DATABASE_URL, into a pool
// configuration sized for one writer.
func poolConfig(dbURL string) (*pgxpool.Config, error) {
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return nil, ErrNoDatabaseURL
	}
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	config.MaxConns = maxConns
	return config, nil
}

// Open connects to the results database and creates the run tables when
// missing. The caller closes the returned pool.
func Open(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	config, err := poolConfig(dbURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to open database pool: %w", err)
	}
	if err := EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

const schema = `
	CREATE TABLE IF NOT EXISTS simulation_runs (
		run_id     UUID PRIMARY KEY,
		scenario   TEXT NOT NULL,
		start_year INT NOT NULL,
		years      INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS cash_flow_lines (
		run_id    UUID NOT NULL REFERENCES simulation_runs(run_id) ON DELETE CASCADE,
		year      INT NOT NULL,
		line_json JSONB NOT NULL,
		PRIMARY KEY (run_id, year)
	);
`

// EnsureSchema creates the result tables when missing.
func EnsureSchema(ctx context.Context, db Querier) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
