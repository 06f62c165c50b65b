package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/ninebynine/internal/prompt"
)

// MockPrompter is a scripted prompt.Prompter
type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) SelectOne(ctx context.Context, title string, labels []string) (string, error) {
	args := m.Called(ctx, title, labels)
	return args.String(0), args.Error(1)
}

func (m *MockPrompter) SelectMany(ctx context.Context, title string, labels []string) ([]string, error) {
	args := m.Called(ctx, title, labels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var _ prompt.Prompter = (*MockPrompter)(nil)
