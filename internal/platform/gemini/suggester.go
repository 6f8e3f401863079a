package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/taskmanager-api/internal/config"
	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/phrazzld/taskmanager-api/internal/suggest"
	"google.golang.org/genai"
)

// defaultTimeout bounds a model call when the configuration leaves it unset.
const defaultTimeout = 10 * time.Second

// contentGenerator is the subset of *genai.Models used by the suggester.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Suggester implements suggest.Suggester using the Gemini API, falling back
// to the rule engine on any failure.
type Suggester struct {
	logger  *slog.Logger
	models  contentGenerator
	model   string
	timeout time.Duration
	now     func() time.Time
}

// Ensure Suggester implements suggest.Suggester interface
var _ suggest.Suggester = (*Suggester)(nil)

// NewSuggester creates a Gemini-backed suggester from cfg.
func NewSuggester(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Suggester, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	return newSuggester(logger, client.Models, cfg.ModelName, cfg.Timeout, nil), nil
}

func newSuggester(
	logger *slog.Logger,
	models contentGenerator,
	model string,
	timeout time.Duration,
	now func() time.Time,
) *Suggester {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Suggester{
		logger:  logger.With(slog.String("component", "gemini_suggester")),
		models:  models,
		model:   model,
		timeout: timeout,
		now:     now,
	}
}

// Suggest implements suggest.Suggester. It never returns an error; when the
// model cannot be used the rule suggestions are returned.
func (s *Suggester) Suggest(ctx context.Context, tasks []domain.Task) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.now()
	rules := suggest.Rules(tasks, now)

	suggestions, err := s.generate(ctx, tasks, rules, now)
	if err != nil {
		log.Warn("gemini suggestions unavailable, using rule suggestions",
			slog.String("model", s.model),
			slog.String("error", err.Error()))
		return rules, nil
	}

	log.Debug("gemini suggestions generated",
		slog.String("model", s.model),
		slog.Int("count", len(suggestions)))
	return suggestions, nil
}

func (s *Suggester) generate(
	ctx context.Context,
	tasks []domain.Task,
	hints []string,
	now time.Time,
) ([]string, error) {
	prompt, err := buildPrompt(tasks, hints, now)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	return parseResponse(resp)
}

// parseResponse extracts the suggestion list from a model reply.
func parseResponse(resp *genai.GenerateContentResponse) ([]string, error) {
	switch {
	case resp == nil:
		return nil, fmt.Errorf("%w: nil response", ErrInvalidResponse)
	case len(resp.Candidates) == 0:
		return nil, fmt.Errorf("%w: no content generated", ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return nil, ErrContentBlocked
	case resp.Candidates[0].Content == nil:
		return nil, fmt.Errorf("%w: empty content in response", ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	raw := strings.TrimSpace(text.String())
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var parsed []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", ErrInvalidResponse, err)
	}

	suggestions := make([]string, 0, len(parsed))
	for _, p := range parsed {
		if p = strings.TrimSpace(p); p != "" {
			suggestions = append(suggestions, p)
		}
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("%w: no suggestions in response", ErrInvalidResponse)
	}
	return suggestions, nil
}
