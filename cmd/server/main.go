package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/semaphore"

	"spedflow/internal/config"
	"spedflow/internal/handler"
	"spedflow/internal/repository/postgres"
	"spedflow/internal/router"
	"spedflow/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	empresaRepo := postgres.NewEmpresaRepo(db)
	stagingRepo := postgres.NewStagingRepo(db)
	lineItemRepo := postgres.NewLineItemRepo(db)
	taxRepo := postgres.NewTaxRepo(db)
	fornecedorRepo := postgres.NewFornecedorRepo(db)
	runRepo := postgres.NewRunRepo(db)
	reportRepo := postgres.NewReportRepo(db)

	// One weighted semaphore bounds heavy pipeline subtasks across every
	// concurrent run.
	sem := semaphore.NewWeighted(cfg.Pipeline.MaxConcurrent)

	// Initialize services
	loader := service.NewLoader(stagingRepo, cfg.Pipeline.InsertBatchSize, cfg.Pipeline.StrictMode)
	engine := service.NewResolutionEngine(lineItemRepo, cfg.Pipeline.UpdateBatchSize)
	pipeline := service.NewPipelineService(loader, engine, lineItemRepo, taxRepo, sem, cfg.Pipeline.TargetUF)
	exportSvc := service.NewExportService(reportRepo, lineItemRepo, taxRepo, engine, service.NewPendingEscalator())
	taxImport := service.NewTaxImportService(taxRepo)
	fornImport := service.NewFornecedorImportService(fornecedorRepo)

	// Initialize handlers
	healthH := handler.NewHealthHandler(db)
	empresaH := handler.NewEmpresaHandler(empresaRepo)
	uploadH := handler.NewUploadHandler(cfg.Upload)
	runH := handler.NewRunHandler(runRepo, empresaRepo)
	taxH := handler.NewTaxHandler(taxImport, fornImport, exportSvc)
	exportH := handler.NewExportHandler(exportSvc)

	r := router.Setup(cfg, healthH, empresaH, uploadH, runH, taxH, exportH)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background run worker
	worker := service.NewRunWorker(runRepo, pipeline, service.RunWorkerConfig{
		PollInterval: time.Duration(cfg.Worker.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Worker.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	<-workerDone
	return nil
}
