package port

import (
	"context"

	"github.com/google/uuid"

	"spedflow/internal/domain"
)

// RunRepository owns pipeline run bookkeeping. The run row is also the
// progress sink callers poll.
type RunRepository interface {
	Create(ctx context.Context, run *domain.PipelineRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error)

	// ClaimQueued atomically flips up to limit queued runs to running and
	// returns them, so concurrent workers never claim the same run.
	ClaimQueued(ctx context.Context, limit int) ([]domain.PipelineRun, error)

	SetProgress(ctx context.Context, id uuid.UUID, progress int) error
	SetCurrentFile(ctx context.Context, id uuid.UUID, file string) error
	Finish(ctx context.Context, id uuid.UUID, status domain.RunStatus, progress int, message string) error
}

// ProgressSink receives run progress. Progress values are 0–100 and must
// be treated as monotone by implementations that surface them.
type ProgressSink interface {
	Progress(pct int)
	Status(msg string)
}
