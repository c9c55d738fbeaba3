package port

import (
	"context"

	"spedflow/internal/domain"
)

// FornecedorRepository owns the supplier reference table consulted by the
// line-item clone step and the surcharge pass.
type FornecedorRepository interface {
	// Upsert inserts or replaces suppliers keyed by (cod_part, empresa_id).
	Upsert(ctx context.Context, rows []domain.Fornecedor) error

	ListByEmpresa(ctx context.Context, empresaID int64) ([]domain.Fornecedor, error)
}
