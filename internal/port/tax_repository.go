package port

import (
	"context"

	"spedflow/internal/domain"
)

// TaxRegistrationRepository owns the company tax table. The pipeline reads
// it during resolution; writes happen through the upstream import and the
// escalation write-back.
type TaxRegistrationRepository interface {
	// HasAny reports whether the company has imported a tax table at all;
	// ingestion refuses to start without one.
	HasAny(ctx context.Context, empresaID int64) (bool, error)

	ListByEmpresa(ctx context.Context, empresaID int64) ([]domain.TaxRegistration, error)

	// Insert adds new registrations; Touch updates the rate of existing
	// (codigo, produto, ncm) keys. Both are used by the xlsx import.
	Insert(ctx context.Context, rows []domain.TaxRegistration) error
	Touch(ctx context.Context, empresaID int64, rows []domain.TaxRegistration) error

	// BackfillLegacyRates recomputes the legacy rate column from the
	// current one using the fixed correspondence table.
	BackfillLegacyRates(ctx context.Context, empresaID int64) error

	// RegisterUnresolved inserts a blank-rate registration for every
	// distinct (produto, ncm) of unrated line items that has no tax-table
	// row yet, so humans have something to fill in.
	RegisterUnresolved(ctx context.Context, empresaID int64) (int64, error)

	// ListUnresolved returns the blank-rate registrations grouped by
	// (produto, ncm).
	ListUnresolved(ctx context.Context, empresaID int64) ([]domain.UnresolvedItem, error)

	// HasUnresolved reports whether any blank-rate registration remains.
	HasUnresolved(ctx context.Context, empresaID int64) (bool, error)

	// ApplyResolved writes escalation answers back onto the tax table.
	ApplyResolved(ctx context.Context, empresaID int64, rates []domain.ResolvedRate) error
}
