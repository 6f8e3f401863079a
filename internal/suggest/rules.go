package suggest

import (
	"fmt"
	"time"

	"github.com/phrazzld/taskmanager-api/internal/domain"
)

// workloadThreshold is the pending count above which the workload tip fires.
const workloadThreshold = 7

// Suggestion texts.
const (
	overdueFormat   = "You have %d overdue task(s). Consider tackling the earliest due first."
	UrgentMessage   = "Focus on high/critical tasks next. Batch similar ones for momentum."
	WorkloadMessage = "Your pending list is long; mark low-focus items as postponed or cancelled to reduce clutter."
	FallbackMessage = "Great job staying on top of things! Pick any pending item and move it forward."
)

// OverdueMessage renders the overdue suggestion for n tasks.
func OverdueMessage(n int) string {
	return fmt.Sprintf(overdueFormat, n)
}

// Rules evaluates the suggestion rules against tasks at instant now and
// returns the suggestions in rule order: overdue, urgent, workload. When no
// rule fires the result is exactly the fallback message. The result is never
// empty.
func Rules(tasks []domain.Task, now time.Time) []string {
	var overdue, urgent, pending int
	for i := range tasks {
		t := &tasks[i]
		if t.Status != domain.StatusPending {
			continue
		}
		pending++
		if t.IsOverdue(now) {
			overdue++
		}
		if t.Focus.Urgent() {
			urgent++
		}
	}

	suggestions := make([]string, 0, 3)
	if overdue > 0 {
		suggestions = append(suggestions, OverdueMessage(overdue))
	}
	if urgent > 0 {
		suggestions = append(suggestions, UrgentMessage)
	}
	if pending > workloadThreshold {
		suggestions = append(suggestions, WorkloadMessage)
	}

	if len(suggestions) == 0 {
		return []string{FallbackMessage}
	}
	return suggestions
}
