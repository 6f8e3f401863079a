package mocks

import (
	"context"

	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/suggest"
	"github.com/stretchr/testify/mock"
)

// TestifyMockSuggester is a mock of suggest.Suggester for use with testify/mock
type TestifyMockSuggester struct {
	mock.Mock
}

// Ensure TestifyMockSuggester implements suggest.Suggester interface
var _ suggest.Suggester = (*TestifyMockSuggester)(nil)

// Suggest is a mock implementation of suggest.Suggester.Suggest
func (m *TestifyMockSuggester) Suggest(ctx context.Context, tasks []domain.Task) ([]string, error) {
	args := m.Called(ctx, tasks)
	if suggestions, ok := args.Get(0).([]string); ok {
		return suggestions, args.Error(1)
	}
	return nil, args.Error(1)
}
