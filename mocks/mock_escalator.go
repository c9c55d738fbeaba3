package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spedflow/internal/domain"
)

// MockEscalator is a mock implementation of port.RateEscalator.
type MockEscalator struct {
	mock.Mock
}

func (m *MockEscalator) Resolve(ctx context.Context, empresaID int64, items []domain.UnresolvedItem) ([]domain.ResolvedRate, error) {
	args := m.Called(ctx, empresaID, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResolvedRate), args.Error(1)
}
