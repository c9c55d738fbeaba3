package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spedflow/internal/port"
)

// MockLineItemRepo is a mock implementation of port.LineItemRepository.
type MockLineItemRepo struct {
	mock.Mock
}

func (m *MockLineItemRepo) BuildFromStaging(ctx context.Context, empresaID int64, targetUF string, cfops []string) (int64, error) {
	args := m.Called(ctx, empresaID, targetUF, cfops)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLineItemRepo) LatestDtIni(ctx context.Context, empresaID int64) (string, error) {
	args := m.Called(ctx, empresaID)
	return args.String(0), args.Error(1)
}

func (m *MockLineItemRepo) UnratedMatches(ctx context.Context, empresaID int64, useCurrent bool) ([]port.RateUpdate, error) {
	args := m.Called(ctx, empresaID, useCurrent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.RateUpdate), args.Error(1)
}

func (m *MockLineItemRepo) SimplesCandidates(ctx context.Context, empresaID int64, periodo string) ([]port.RateRow, error) {
	args := m.Called(ctx, empresaID, periodo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.RateRow), args.Error(1)
}

func (m *MockLineItemRepo) ResultInputs(ctx context.Context, empresaID int64) ([]port.ResultInput, error) {
	args := m.Called(ctx, empresaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.ResultInput), args.Error(1)
}

func (m *MockLineItemRepo) UpdateRates(ctx context.Context, updates []port.RateUpdate) error {
	args := m.Called(ctx, updates)
	return args.Error(0)
}

func (m *MockLineItemRepo) UpdateResults(ctx context.Context, updates []port.ResultUpdate) error {
	args := m.Called(ctx, updates)
	return args.Error(0)
}

func (m *MockLineItemRepo) CountUnrated(ctx context.Context, empresaID int64) (int64, error) {
	args := m.Called(ctx, empresaID)
	return args.Get(0).(int64), args.Error(1)
}
