package service

import (
	"context"

	"spedflow/internal/domain"
	"spedflow/internal/port"
)

// PendingEscalator is the RateEscalator of the HTTP deployment: there is
// nobody to ask synchronously, so exports stay blocked until the rates
// arrive through the write-back endpoint.
type PendingEscalator struct{}

// NewPendingEscalator creates a PendingEscalator.
func NewPendingEscalator() port.RateEscalator { return PendingEscalator{} }

// Resolve always reports the items as unresolved.
func (PendingEscalator) Resolve(ctx context.Context, empresaID int64, items []domain.UnresolvedItem) ([]domain.ResolvedRate, error) {
	return nil, domain.ErrRatesUnresolved
}
