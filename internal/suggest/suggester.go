package suggest

import (
	"context"
	"time"

	"github.com/phrazzld/taskmanager-api/internal/domain"
)

// Suggester produces suggestions for a batch of tasks.
type Suggester interface {
	Suggest(ctx context.Context, tasks []domain.Task) ([]string, error)
}

// RuleSuggester is a Suggester backed by Rules.
type RuleSuggester struct {
	now func() time.Time
}

// Ensure RuleSuggester implements Suggester interface
var _ Suggester = (*RuleSuggester)(nil)

// NewRuleSuggester creates a RuleSuggester. A nil clock uses the current UTC time.
func NewRuleSuggester(now func() time.Time) *RuleSuggester {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &RuleSuggester{now: now}
}

// Suggest implements Suggester. It never fails.
func (s *RuleSuggester) Suggest(_ context.Context, tasks []domain.Task) ([]string, error) {
	return Rules(tasks, s.now()), nil
}
