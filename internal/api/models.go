package api

import (
	"github.com/phrazzld/taskmanager-api/internal/domain"
)

// CreateTaskRequest is the body of POST /tasks.
// A JSON null counts as an absent field.
type CreateTaskRequest struct {
	Title       *string `json:"title"       validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	Focus       *string `json:"focus"       validate:"omitnil,oneof=low medium high critical"`
	Status      *string `json:"status"      validate:"omitnil,oneof=pending postponed cancelled done"`
	DueDate     *string `json:"due_date"`
}

// UpdateTaskRequest is the body of PATCH /tasks/{id}. Every field is optional.
type UpdateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitnil,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	Focus       *string `json:"focus"       validate:"omitnil,oneof=low medium high critical"`
	Status      *string `json:"status"      validate:"omitnil,oneof=pending postponed cancelled done"`
	DueDate     *string `json:"due_date"`
}

// DeleteTaskResponse is the body of a successful DELETE /tasks/{id}.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// SuggestTask is one task submitted to POST /ai/suggest. Tasks usually come
// straight from GET /tasks, so every Task field is accepted; only focus,
// status and due_date influence the result.
type SuggestTask struct {
	ID          *string `json:"id"`
	Title       *string `json:"title"       validate:"omitnil,max=200"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	Focus       *string `json:"focus"       validate:"omitnil,oneof=low medium high critical"`
	Status      *string `json:"status"      validate:"omitnil,oneof=pending postponed cancelled done"`
	DueDate     *string `json:"due_date"`
	CreatedAt   *string `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`
}

// SuggestRequest is the body of POST /ai/suggest.
type SuggestRequest struct {
	Tasks []SuggestTask `json:"tasks" validate:"required,dive"`
}

// SuggestResponse is the body of a successful POST /ai/suggest.
type SuggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

// MessageResponse is a generic informational body.
type MessageResponse struct {
	Message string `json:"message"`
}

// taskFields is the common shape of the task request bodies.
type taskFields struct {
	Title, Description, Focus, Status, DueDate *string
}

// toInput converts request fields into a domain.TaskInput, parsing due_date.
func (f taskFields) toInput() (domain.TaskInput, *domain.ValidationError) {
	in := domain.TaskInput{
		Title:       f.Title,
		Description: f.Description,
	}
	if f.Focus != nil {
		focus := domain.Focus(*f.Focus)
		in.Focus = &focus
	}
	if f.Status != nil {
		status := domain.Status(*f.Status)
		in.Status = &status
	}
	if f.DueDate != nil {
		due, err := domain.ParseTimestamp(*f.DueDate)
		if err != nil {
			return in, domain.NewValidationError("due_date", "must be an ISO-8601 timestamp", domain.ErrInvalidTimestamp)
		}
		in.DueDate = &due
	}
	return in, nil
}

func (req CreateTaskRequest) fields() taskFields {
	return taskFields{req.Title, req.Description, req.Focus, req.Status, req.DueDate}
}

func (req UpdateTaskRequest) fields() taskFields {
	return taskFields{req.Title, req.Description, req.Focus, req.Status, req.DueDate}
}
