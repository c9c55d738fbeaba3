package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spedflow/internal/domain"
	"spedflow/internal/port"
)

// MockStagingRepo is a mock implementation of port.StagingRepository.
type MockStagingRepo struct {
	mock.Mock
}

func (m *MockStagingRepo) InsertHeaders(ctx context.Context, rows []domain.PeriodHeader) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockStagingRepo) InsertParticipants(ctx context.Context, rows []port.Reg0150Row) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockStagingRepo) InsertItems(ctx context.Context, rows []port.Reg0200Row) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockStagingRepo) InsertDocuments(ctx context.Context, rows []port.RegC100Row) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockStagingRepo) InsertLines(ctx context.Context, rows []port.RegC170Row) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}
