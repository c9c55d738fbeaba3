package port

import (
	"context"

	"spedflow/internal/domain"
)

// RateEscalator is the human-escalation collaborator. Given the items the
// resolution engine could not rate, it either answers with rates (an
// automated or interactive frontend may do so synchronously) or returns
// domain.ErrRatesUnresolved to signal that export must stay blocked until
// the rates arrive through the write-back endpoint.
type RateEscalator interface {
	Resolve(ctx context.Context, empresaID int64, items []domain.UnresolvedItem) ([]domain.ResolvedRate, error)
}
