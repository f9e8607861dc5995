package repository

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewRunsPool connects to the run-history database and ensures the schema
// exists. Callers treat a nil pool as "history disabled"; the pipeline
// never requires the database.
func NewRunsPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tailor_runs (
			id              UUID PRIMARY KEY,
			job_description TEXT NOT NULL,
			status          TEXT NOT NULL,
			provider        TEXT,
			backend         TEXT,
			output_path     TEXT,
			error           TEXT,
			duration_ms     BIGINT,
			created_at      TIMESTAMPTZ NOT NULL,
			updated_at      TIMESTAMPTZ NOT NULL
		)`)
	return err
}
