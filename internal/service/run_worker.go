package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"spedflow/internal/domain"
	"spedflow/internal/port"
)

// RunWorkerConfig holds settings for the pipeline run worker.
type RunWorkerConfig struct {
	PollInterval time.Duration
	Concurrency  int
}

// RunWorker polls for queued pipeline runs and executes them. Progress and
// status land on the run row, which callers poll over HTTP.
type RunWorker struct {
	runs     port.RunRepository
	pipeline *PipelineService
	cfg      RunWorkerConfig
	wg       sync.WaitGroup
}

// NewRunWorker creates a RunWorker.
func NewRunWorker(runs port.RunRepository, pipeline *PipelineService, cfg RunWorkerConfig) *RunWorker {
	return &RunWorker{runs: runs, pipeline: pipeline, cfg: cfg}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight runs have finished.
func (w *RunWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("runWorker: started (poll=%s, concurrency=%d)", w.cfg.PollInterval, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("runWorker: shutting down, waiting for in-flight runs...")
			w.wg.Wait()
			log.Printf("runWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			runs, err := w.runs.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("runWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range runs {
				run := runs[i]

				sem <- struct{}{}
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }()

					// In-flight runs finish even during shutdown, so they
					// get a fresh context with a generous ceiling.
					runCtx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
					defer cancel()

					log.Printf("runWorker: dispatching run %s (empresa=%d, %d arquivos)",
						run.ID, run.EmpresaID, len(run.FilePaths))
					w.execute(runCtx, run)
				}()
			}
		}
	}
}

func (w *RunWorker) execute(ctx context.Context, run domain.PipelineRun) {
	sink := &runProgressSink{ctx: ctx, runs: w.runs, id: run.ID}

	message, err := w.pipeline.Execute(ctx, run.EmpresaID, run.FilePaths, sink)
	if err != nil {
		log.Printf("runWorker: run %s failed: %v", run.ID, err)
		if ferr := w.runs.Finish(ctx, run.ID, domain.RunStatusFailed, 0, "Falha: "+err.Error()); ferr != nil {
			log.Printf("runWorker: Finish error for run %s: %v", run.ID, ferr)
		}
		return
	}
	if err := w.runs.Finish(ctx, run.ID, domain.RunStatusSucceeded, 100, message); err != nil {
		log.Printf("runWorker: Finish error for run %s: %v", run.ID, err)
	}
}

// runProgressSink writes progress onto the run row. Write failures are
// logged and swallowed so bookkeeping never kills a run.
type runProgressSink struct {
	ctx  context.Context
	runs port.RunRepository
	id   uuid.UUID
}

func (s *runProgressSink) Progress(pct int) {
	if err := s.runs.SetProgress(s.ctx, s.id, pct); err != nil {
		log.Printf("runWorker: SetProgress error for run %s: %v", s.id, err)
	}
}

func (s *runProgressSink) Status(msg string) {
	if err := s.runs.SetCurrentFile(s.ctx, s.id, msg); err != nil {
		log.Printf("runWorker: SetCurrentFile error for run %s: %v", s.id, err)
	}
}
