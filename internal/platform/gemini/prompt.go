package gemini

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
	"time"
	"unicode/utf8"

	"github.com/phrazzld/taskmanager-api/internal/domain"
)

// Prompt limits keep requests small regardless of the batch size.
const (
	maxPromptTasks  = 50
	maxTitleRunes   = 80
	maxSuggestions  = 5
	promptTimestamp = time.RFC3339
)

//go:embed prompt.tmpl
var promptTemplateText string

var promptTemplate = template.Must(template.New("suggest").Parse(promptTemplateText))

// promptData represents the data passed to the prompt template
type promptData struct {
	Now            string
	MaxSuggestions int
	RuleHints      []string
	Tasks          []taskSummary
	Omitted        int
}

// taskSummary is the compact view of a task sent to the model.
type taskSummary struct {
	Title   string
	Focus   domain.Focus
	Status  domain.Status
	DueDate string
	Overdue bool
}

// buildPrompt renders the prompt for tasks, including the rule output as hints.
func buildPrompt(tasks []domain.Task, hints []string, now time.Time) (string, error) {
	data := promptData{
		Now:            now.UTC().Format(promptTimestamp),
		MaxSuggestions: maxSuggestions,
		RuleHints:      hints,
	}

	for i := range tasks {
		if i == maxPromptTasks {
			data.Omitted = len(tasks) - maxPromptTasks
			break
		}
		t := &tasks[i]
		summary := taskSummary{
			Title:   truncate(t.Title, maxTitleRunes),
			Focus:   t.Focus,
			Status:  t.Status,
			Overdue: t.IsOverdue(now),
		}
		if t.DueDate != nil {
			summary.DueDate = t.DueDate.UTC().Format(promptTimestamp)
		}
		data.Tasks = append(data.Tasks, summary)
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}
