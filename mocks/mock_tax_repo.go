package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spedflow/internal/domain"
)

// MockTaxRepo is a mock implementation of port.TaxRegistrationRepository.
type MockTaxRepo struct {
	mock.Mock
}

func (m *MockTaxRepo) HasAny(ctx context.Context, empresaID int64) (bool, error) {
	args := m.Called(ctx, empresaID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaxRepo) ListByEmpresa(ctx context.Context, empresaID int64) ([]domain.TaxRegistration, error) {
	args := m.Called(ctx, empresaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxRegistration), args.Error(1)
}

func (m *MockTaxRepo) Insert(ctx context.Context, rows []domain.TaxRegistration) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockTaxRepo) Touch(ctx context.Context, empresaID int64, rows []domain.TaxRegistration) error {
	args := m.Called(ctx, empresaID, rows)
	return args.Error(0)
}

func (m *MockTaxRepo) BackfillLegacyRates(ctx context.Context, empresaID int64) error {
	args := m.Called(ctx, empresaID)
	return args.Error(0)
}

func (m *MockTaxRepo) RegisterUnresolved(ctx context.Context, empresaID int64) (int64, error) {
	args := m.Called(ctx, empresaID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaxRepo) ListUnresolved(ctx context.Context, empresaID int64) ([]domain.UnresolvedItem, error) {
	args := m.Called(ctx, empresaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UnresolvedItem), args.Error(1)
}

func (m *MockTaxRepo) HasUnresolved(ctx context.Context, empresaID int64) (bool, error) {
	args := m.Called(ctx, empresaID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaxRepo) ApplyResolved(ctx context.Context, empresaID int64, rates []domain.ResolvedRate) error {
	args := m.Called(ctx, empresaID, rates)
	return args.Error(0)
}
