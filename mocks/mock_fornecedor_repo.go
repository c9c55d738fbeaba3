package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spedflow/internal/domain"
)

// MockFornecedorRepo is a mock implementation of port.FornecedorRepository.
type MockFornecedorRepo struct {
	mock.Mock
}

func (m *MockFornecedorRepo) Upsert(ctx context.Context, rows []domain.Fornecedor) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockFornecedorRepo) ListByEmpresa(ctx context.Context, empresaID int64) ([]domain.Fornecedor, error) {
	args := m.Called(ctx, empresaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fornecedor), args.Error(1)
}
