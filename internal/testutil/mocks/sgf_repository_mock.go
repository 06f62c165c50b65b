package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/ninebynine/internal/models"
	"github.com/vytor/ninebynine/internal/repository"
)

// MockSGFRepository is a mock implementation of repository.SGFRepository
type MockSGFRepository struct {
	mock.Mock
}

func (m *MockSGFRepository) Get(ctx context.Context, gameID int64) (*models.CachedSGF, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CachedSGF), args.Error(1)
}

func (m *MockSGFRepository) Put(ctx context.Context, sgf models.CachedSGF) error {
	args := m.Called(ctx, sgf)
	return args.Error(0)
}

func (m *MockSGFRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSGFRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

var _ repository.SGFRepository = (*MockSGFRepository)(nil)
