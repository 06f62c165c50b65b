package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/ninebynine/internal/models"
	"github.com/vytor/ninebynine/internal/ogs"
)

// MockOGSClient is a mock implementation of ogs.ClientInterface
type MockOGSClient struct {
	mock.Mock
}

func (m *MockOGSClient) SearchPlayers(ctx context.Context, query string) ([]models.Player, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Player), args.Error(1)
}

func (m *MockOGSClient) FetchGamesPage(ctx context.Context, ref ogs.PageRef) (*models.Page, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page), args.Error(1)
}

func (m *MockOGSClient) FetchSGF(ctx context.Context, gameID int64) (string, error) {
	args := m.Called(ctx, gameID)
	return args.String(0), args.Error(1)
}

var _ ogs.ClientInterface = (*MockOGSClient)(nil)
