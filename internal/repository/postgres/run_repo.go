package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"spedflow/internal/domain"
	"spedflow/internal/port"
)

type runRepo struct {
	db *sqlx.DB
}

// NewRunRepo creates a PostgreSQL-backed RunRepository.
func NewRunRepo(db *sqlx.DB) port.RunRepository {
	return &runRepo{db: db}
}

// runRow carries the JSONB file list alongside the run columns.
type runRow struct {
	domain.PipelineRun
	FilePathsRaw []byte `db:"file_paths"`
}

func (rr *runRow) toDomain() (*domain.PipelineRun, error) {
	run := rr.PipelineRun
	run.FilePaths = []string{}
	if len(rr.FilePathsRaw) > 0 {
		if err := json.Unmarshal(rr.FilePathsRaw, &run.FilePaths); err != nil {
			return nil, err
		}
	}
	return &run, nil
}

func (r *runRepo) Create(ctx context.Context, run *domain.PipelineRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.Status == "" {
		run.Status = domain.RunStatusQueued
	}
	paths, err := json.Marshal(run.FilePaths)
	if err != nil {
		return err
	}
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO pipeline_runs (id, empresa_id, status, progress, current_file, message, file_paths)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		run.ID, run.EmpresaID, run.Status, run.Progress, run.CurrentFile, run.Message, paths).
		Scan(&run.CreatedAt, &run.UpdatedAt)
}

func (r *runRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row,
		`SELECT id, empresa_id, status, progress, current_file, message, file_paths, created_at, updated_at
		 FROM pipeline_runs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *runRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.PipelineRun, error) {
	rows := []runRow{}
	err := r.db.SelectContext(ctx, &rows,
		`UPDATE pipeline_runs
		 SET status = $1, updated_at = now()
		 WHERE id IN (
		     SELECT id FROM pipeline_runs
		     WHERE status = $2
		     ORDER BY created_at
		     LIMIT $3
		     FOR UPDATE SKIP LOCKED
		 )
		 RETURNING id, empresa_id, status, progress, current_file, message, file_paths, created_at, updated_at`,
		domain.RunStatusRunning, domain.RunStatusQueued, limit)
	if err != nil {
		return nil, err
	}
	runs := make([]domain.PipelineRun, 0, len(rows))
	for i := range rows {
		run, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, nil
}

func (r *runRepo) SetProgress(ctx context.Context, id uuid.UUID, progress int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE pipeline_runs SET progress = $1, updated_at = now() WHERE id = $2`,
		progress, id)
	return err
}

func (r *runRepo) SetCurrentFile(ctx context.Context, id uuid.UUID, file string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE pipeline_runs SET current_file = $1, updated_at = now() WHERE id = $2`,
		file, id)
	return err
}

func (r *runRepo) Finish(ctx context.Context, id uuid.UUID, status domain.RunStatus, progress int, message string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE pipeline_runs
		 SET status = $1, progress = $2, message = $3, updated_at = now()
		 WHERE id = $4`,
		status, progress, message, id)
	return err
}
