// Package repository persists run history records. Writes are best-effort:
// the pipeline's outcome never depends on them, and a nil pool disables
// persistence entirely.
package repository

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"resume-tailor/internal/domain"
)

type RunsRepo struct {
	pool *pgxpool.Pool
}

func NewRunsRepo(pool *pgxpool.Pool) *RunsRepo {
	return &RunsRepo{pool: pool}
}

// Save upserts the job record. A nil pool is a no-op.
func (r *RunsRepo) Save(ctx context.Context, j *domain.TailorJob) error {
	if r == nil || r.pool == nil {
		return nil
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO tailor_runs
			(id, job_description, status, provider, backend, output_path, error, duration_ms, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			provider = EXCLUDED.provider,
			backend = EXCLUDED.backend,
			output_path = EXCLUDED.output_path,
			error = EXCLUDED.error,
			duration_ms = EXCLUDED.duration_ms,
			updated_at = EXCLUDED.updated_at`,
		j.ID, j.JobDescription, j.Status, j.Provider, j.Backend,
		j.OutputPath, j.Error, j.DurationMS, j.CreatedAt, j.UpdatedAt)
	return err
}
