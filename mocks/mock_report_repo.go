package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spedflow/internal/domain"
)

// MockReportRepo is a mock implementation of port.ReportRepository. Rows
// set in StreamData are played back through the StreamRows callback.
type MockReportRepo struct {
	mock.Mock

	StreamData []domain.ExportRow
}

func (m *MockReportRepo) PeriodHeader(ctx context.Context, empresaID int64, periodo string) (*domain.PeriodHeader, error) {
	args := m.Called(ctx, empresaID, periodo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodHeader), args.Error(1)
}

func (m *MockReportRepo) CountRows(ctx context.Context, empresaID int64, periodo string) (int64, error) {
	args := m.Called(ctx, empresaID, periodo)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepo) StreamRows(ctx context.Context, empresaID int64, periodo string, fn func(domain.ExportRow) error) error {
	args := m.Called(ctx, empresaID, periodo)
	if err := args.Error(0); err != nil {
		return err
	}
	for _, row := range m.StreamData {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}
