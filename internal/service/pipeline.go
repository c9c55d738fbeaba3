package service

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"golang.org/x/sync/semaphore"

	"spedflow/internal/domain"
	"spedflow/internal/port"
)

// PipelineService runs the full ingestion pipeline for one company: stage
// every file in order, build line items, resolve rates, apply the
// simplified-regime surcharge and compute results. The injected semaphore
// bounds heavy subtasks process-wide, shared with every concurrent run.
type PipelineService struct {
	loader    *Loader
	engine    *ResolutionEngine
	lineItems port.LineItemRepository
	taxRepo   port.TaxRegistrationRepository
	sem       *semaphore.Weighted
	targetUF  string
}

// NewPipelineService creates a PipelineService.
func NewPipelineService(
	loader *Loader,
	engine *ResolutionEngine,
	lineItems port.LineItemRepository,
	taxRepo port.TaxRegistrationRepository,
	sem *semaphore.Weighted,
	targetUF string,
) *PipelineService {
	return &PipelineService{
		loader:    loader,
		engine:    engine,
		lineItems: lineItems,
		taxRepo:   taxRepo,
		sem:       sem,
		targetUF:  targetUF,
	}
}

// Execute processes the given files for the company and reports progress
// through the sink. It returns the terminal success message; any error
// means the run failed and earlier committed chunks may persist.
func (s *PipelineService) Execute(ctx context.Context, empresaID int64, filePaths []string, sink port.ProgressSink) (string, error) {
	if len(filePaths) == 0 {
		return "", domain.ErrNoFilesSupplied
	}

	hasTax, err := s.taxRepo.HasAny(ctx, empresaID)
	if err != nil {
		return "", fmt.Errorf("pipeline.Execute: %w", err)
	}
	if !hasTax {
		return "", domain.ErrTaxTableMissing
	}

	// Per-file progress covers the whole bar; the resolution passes run
	// after it reaches 100, mirroring the original's reporting.
	step := (100 + len(filePaths) - 1) / len(filePaths)
	var periodo string
	for i, path := range filePaths {
		name := filepath.Base(path)
		sink.Status(fmt.Sprintf("Processando arquivo %s (%d de %d)", name, i+1, len(filePaths)))

		if err := s.sem.Acquire(ctx, 1); err != nil {
			return "", fmt.Errorf("pipeline.Execute: %w", err)
		}
		stats, err := s.loader.LoadFile(ctx, empresaID, path)
		s.sem.Release(1)
		if err != nil {
			sink.Progress(0)
			return "", fmt.Errorf("arquivo %s: %w", name, err)
		}
		periodo = stats.Periodo

		pct := (i + 1) * step
		if pct > 100 {
			pct = 100
		}
		sink.Progress(pct)
	}

	sink.Status("Montando itens de linha")
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("pipeline.Execute: %w", err)
	}
	built, err := s.lineItems.BuildFromStaging(ctx, empresaID, s.targetUF, domain.EligibleCFOPs)
	s.sem.Release(1)
	if err != nil {
		return "", fmt.Errorf("pipeline.Execute: montando itens: %w", err)
	}
	log.Printf("pipeline.Execute: empresa=%d itens montados=%d", empresaID, built)

	sink.Status("Aplicando tributação")
	if _, err := s.engine.ResolveBase(ctx, empresaID); err != nil {
		return "", err
	}
	if _, err := s.engine.ApplySurcharge(ctx, empresaID, periodo); err != nil {
		return "", err
	}

	sink.Status("Calculando resultados")
	if _, _, err := s.engine.ComputeResults(ctx, empresaID); err != nil {
		return "", err
	}

	// Blank-rate registrations give the escalation surface something to
	// list; they do not fail the run.
	registered, err := s.taxRepo.RegisterUnresolved(ctx, empresaID)
	if err != nil {
		return "", fmt.Errorf("pipeline.Execute: registrando pendências: %w", err)
	}

	unrated, err := s.lineItems.CountUnrated(ctx, empresaID)
	if err != nil {
		return "", fmt.Errorf("pipeline.Execute: %w", err)
	}
	if unrated > 0 {
		log.Printf("pipeline.Execute: empresa=%d itens sem alíquota=%d pendências novas=%d",
			empresaID, unrated, registered)
		return fmt.Sprintf("Arquivos processados; %d itens aguardando alíquota", unrated), nil
	}
	return "Arquivos processados com sucesso", nil
}
