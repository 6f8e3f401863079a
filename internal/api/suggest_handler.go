package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskmanager-api/internal/api/shared"
	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/phrazzld/taskmanager-api/internal/suggest"
)

// SuggestHandler handles POST /ai/suggest requests
type SuggestHandler struct {
	suggester suggest.Suggester
	logger    *slog.Logger
}

// NewSuggestHandler creates a new SuggestHandler
func NewSuggestHandler(suggester suggest.Suggester, logger *slog.Logger) *SuggestHandler {
	if suggester == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("suggester cannot be nil for SuggestHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SuggestHandler{
		suggester: suggester,
		logger:    logger.With(slog.String("component", "suggest_handler")),
	}
}

// Suggest handles POST /ai/suggest requests. The submitted tasks are not
// persisted; they only feed the suggestion engine.
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SuggestRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tasks, verr := suggestTasks(req.Tasks)
	if verr != nil {
		shared.RespondWithValidationError(w, r, verr)
		return
	}

	suggestions, err := h.suggester.Suggest(r.Context(), tasks)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate suggestions")
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	log.Debug("suggestions generated",
		slog.Int("task_count", len(tasks)),
		slog.Int("suggestion_count", len(suggestions)))
	shared.RespondWithJSON(w, r, http.StatusOK, SuggestResponse{Suggestions: suggestions})
}

// suggestTasks converts submitted tasks into domain tasks, applying the
// default focus and status and parsing due dates.
func suggestTasks(in []SuggestTask) ([]domain.Task, *domain.ValidationError) {
	tasks := make([]domain.Task, 0, len(in))
	var verr *domain.ValidationError

	for i, st := range in {
		task := domain.Task{
			Description: st.Description,
			Focus:       domain.DefaultFocus,
			Status:      domain.DefaultStatus,
		}
		if st.ID != nil {
			task.ID = *st.ID
		}
		if st.Title != nil {
			task.Title = *st.Title
		}
		if st.Focus != nil {
			task.Focus = domain.Focus(*st.Focus)
		}
		if st.Status != nil {
			task.Status = domain.Status(*st.Status)
		}
		if st.DueDate != nil {
			due, err := domain.ParseTimestamp(*st.DueDate)
			if err != nil {
				field := fmt.Sprintf("tasks[%d].due_date", i)
				if verr == nil {
					verr = domain.NewValidationError(field, "must be an ISO-8601 timestamp", domain.ErrInvalidTimestamp)
				} else {
					verr.Add(field, "must be an ISO-8601 timestamp")
				}
				continue
			}
			task.DueDate = &due
		}
		tasks = append(tasks, task)
	}

	if verr != nil {
		return nil, verr
	}
	return tasks, nil
}
