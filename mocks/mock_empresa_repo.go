package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spedflow/internal/domain"
)

// MockEmpresaRepo is a mock implementation of port.EmpresaRepository.
type MockEmpresaRepo struct {
	mock.Mock
}

func (m *MockEmpresaRepo) List(ctx context.Context) ([]domain.Empresa, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Empresa), args.Error(1)
}

func (m *MockEmpresaRepo) GetByID(ctx context.Context, id int64) (*domain.Empresa, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Empresa), args.Error(1)
}

func (m *MockEmpresaRepo) Create(ctx context.Context, e *domain.Empresa) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
