package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"spedflow/internal/domain"
	"spedflow/mocks"
)

func TestRunWorker_FinishesFailedRun(t *testing.T) {
	run := domain.PipelineRun{
		ID:        uuid.New(),
		EmpresaID: 1,
		Status:    domain.RunStatusRunning,
		FilePaths: []string{"missing.txt"},
	}

	claimed := make(chan struct{})
	finished := make(chan struct{})

	runs := new(mocks.MockRunRepo)
	runs.On("ClaimQueued", mock.Anything, 1).Return([]domain.PipelineRun{run}, nil).Once().
		Run(func(mock.Arguments) { close(claimed) })
	runs.On("ClaimQueued", mock.Anything, 1).Return([]domain.PipelineRun{}, nil)
	runs.On("Finish", mock.Anything, run.ID, domain.RunStatusFailed, 0, mock.MatchedBy(func(msg string) bool {
		return len(msg) > 0 && msg[:6] == "Falha:"
	})).Return(nil).Run(func(mock.Arguments) { close(finished) })

	// No tax table, so the pipeline fails fast without touching staging.
	taxRepo := new(mocks.MockTaxRepo)
	taxRepo.On("HasAny", mock.Anything, int64(1)).Return(false, nil)

	pipeline := newPipeline(newStagingMock(), new(mocks.MockLineItemRepo), taxRepo)
	worker := NewRunWorker(runs, pipeline, RunWorkerConfig{
		PollInterval: 10 * time.Millisecond,
		Concurrency:  1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Start(ctx)
	}()

	select {
	case <-claimed:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never claimed the queued run")
	}
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never finished the run")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not shut down")
	}

	runs.AssertExpectations(t)
}
