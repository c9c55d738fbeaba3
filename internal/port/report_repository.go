package port

import (
	"context"

	"spedflow/internal/domain"
)

// ReportRepository provides the queries behind the period export.
type ReportRepository interface {
	// PeriodHeader returns the 0000 register of the period, or
	// domain.ErrPeriodNotFound.
	PeriodHeader(ctx context.Context, empresaID int64, periodo string) (*domain.PeriodHeader, error)

	CountRows(ctx context.Context, empresaID int64, periodo string) (int64, error)

	// StreamRows walks the period's line items joined with supplier
	// identity, invoking fn once per row in stable order. Rows are
	// cursor-streamed, not buffered.
	StreamRows(ctx context.Context, empresaID int64, periodo string, fn func(domain.ExportRow) error) error
}

// EmpresaRepository reads and manages companies.
type EmpresaRepository interface {
	List(ctx context.Context) ([]domain.Empresa, error)
	GetByID(ctx context.Context, id int64) (*domain.Empresa, error)
	Create(ctx context.Context, e *domain.Empresa) error
}
