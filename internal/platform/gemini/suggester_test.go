package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/taskmanager-api/internal/config"
	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/phrazzld/taskmanager-api/internal/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

var fixedNow = time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)

// fakeGenerator records the prompt and returns a canned reply.
type fakeGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	block  bool
	prompt string
	model  string
}

func (f *fakeGenerator) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	_ *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func overdueTasks() []domain.Task {
	yesterday := fixedNow.Add(-24 * time.Hour)
	return []domain.Task{{Title: "File taxes", Status: domain.StatusPending, Focus: domain.FocusHigh, DueDate: &yesterday}}
}

func TestSuggestUsesModelReply(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("```json\n[\"File your taxes today.\", \" \", \"Then rest.\"]\n```")}
	s := newSuggester(nil, gen, "gemini-test", time.Second, func() time.Time { return fixedNow })

	got, err := s.Suggest(context.Background(), overdueTasks())
	require.NoError(t, err)
	assert.Equal(t, []string{"File your taxes today.", "Then rest."}, got)

	assert.Equal(t, "gemini-test", gen.model)
	assert.Contains(t, gen.prompt, "File taxes | high | pending")
	assert.Contains(t, gen.prompt, "(overdue)")
	assert.Contains(t, gen.prompt, suggest.OverdueMessage(1))
}

func TestSuggestFallsBackToRules(t *testing.T) {
	want := suggest.Rules(overdueTasks(), fixedNow)

	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"api error", &fakeGenerator{err: errors.New("quota exceeded")}},
		{"nil response", &fakeGenerator{}},
		{"no candidates", &fakeGenerator{resp: &genai.GenerateContentResponse{}}},
		{"not json", &fakeGenerator{resp: textResponse("Do your taxes.")}},
		{"empty array", &fakeGenerator{resp: textResponse("[]")}},
		{"blocked", &fakeGenerator{resp: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
		}}},
		{"timeout", &fakeGenerator{block: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, buf := logger.GetTestLogger(t)
			s := newSuggester(log, tt.gen, "gemini-test", 20*time.Millisecond, func() time.Time { return fixedNow })

			got, err := s.Suggest(context.Background(), overdueTasks())
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Contains(t, buf.String(), "using rule suggestions")
		})
	}
}

func TestParseResponseCapsSuggestions(t *testing.T) {
	got, err := parseResponse(textResponse(`["1","2","3","4","5","6","7"]`))
	require.NoError(t, err)
	assert.Len(t, got, maxSuggestions)
}

func TestBuildPromptLimitsTasks(t *testing.T) {
	tasks := make([]domain.Task, maxPromptTasks+3)
	for i := range tasks {
		tasks[i] = domain.Task{Focus: domain.FocusLow, Status: domain.StatusPending}
	}

	prompt, err := buildPrompt(tasks, []string{suggest.WorkloadMessage}, fixedNow)
	require.NoError(t, err)
	assert.Contains(t, prompt, "... and 3 more tasks not shown")
	assert.Contains(t, prompt, "(untitled)")
	assert.Contains(t, prompt, "2026-07-15T12:00:00Z")
}

func TestNewSuggesterValidatesConfig(t *testing.T) {
	_, err := NewSuggester(context.Background(), nil, config.LLMConfig{ModelName: "m"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewSuggester(context.Background(), nil, config.LLMConfig{GeminiAPIKey: "k"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
