package domain

import (
	"time"
	"unicode/utf8"
)

// Field length limits, counted in characters.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// Focus is a priority-like classification of a task, distinct from its
// workflow status.
type Focus string

// Possible focus values
const (
	FocusLow      Focus = "low"
	FocusMedium   Focus = "medium"
	FocusHigh     Focus = "high"
	FocusCritical Focus = "critical"
)

// DefaultFocus is applied when a task is created without a focus.
const DefaultFocus = FocusMedium

// Valid reports whether f is one of the known focus values.
func (f Focus) Valid() bool {
	switch f {
	case FocusLow, FocusMedium, FocusHigh, FocusCritical:
		return true
	default:
		return false
	}
}

// Urgent reports whether the focus is high or critical.
func (f Focus) Urgent() bool {
	return f == FocusHigh || f == FocusCritical
}

// ParseFocus converts s into a Focus, returning ErrInvalidFocus for unknown values.
func ParseFocus(s string) (Focus, error) {
	f := Focus(s)
	if !f.Valid() {
		return "", ErrInvalidFocus
	}
	return f, nil
}

// Status represents the workflow state of a task.
type Status string

// Possible status values
const (
	StatusPending   Status = "pending"
	StatusPostponed Status = "postponed"
	StatusCancelled Status = "cancelled"
	StatusDone      Status = "done"
)

// DefaultStatus is applied when a task is created without a status.
const DefaultStatus = StatusPending

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPostponed, StatusCancelled, StatusDone:
		return true
	default:
		return false
	}
}

// ParseStatus converts s into a Status, returning ErrInvalidStatus for unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Task is a unit of work tracked by the API. ID and both timestamps are
// assigned by the document store and are nil/empty until the task has been
// persisted.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Focus       Focus      `json:"focus"`
	Status      Status     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// IsOverdue reports whether the task is pending and its due date lies
// strictly before now. Tasks without a due date are never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status == StatusPending && t.DueDate != nil && t.DueDate.Before(now)
}

// TaskInput carries the mutable fields of a task for create and update
// operations. A nil field is absent: it is not written on create (so the
// defaults apply) and left untouched on update.
type TaskInput struct {
	Title       *string
	Description *string
	Focus       *Focus
	Status      *Status
	DueDate     *time.Time
}

// IsEmpty reports whether no field is set.
func (in TaskInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.Focus == nil &&
		in.Status == nil && in.DueDate == nil
}

// Validate checks every present field. When requireTitle is true a missing
// title is reported as well.
func (in TaskInput) Validate(requireTitle bool) error {
	var verr *ValidationError
	add := func(field, message string, cause error) {
		if verr == nil {
			verr = NewValidationError(field, message, cause)
			return
		}
		verr.Add(field, message)
	}

	switch {
	case in.Title == nil:
		if requireTitle {
			add("title", "is required", nil)
		}
	case *in.Title == "":
		add("title", "is required", nil)
	case utf8.RuneCountInString(*in.Title) > MaxTitleLength:
		add("title", "must be at most 200 characters", nil)
	}

	if in.Description != nil && utf8.RuneCountInString(*in.Description) > MaxDescriptionLength {
		add("description", "must be at most 2000 characters", nil)
	}

	if in.Focus != nil && !in.Focus.Valid() {
		add("focus", "must be one of low, medium, high, critical", ErrInvalidFocus)
	}

	if in.Status != nil && !in.Status.Valid() {
		add("status", "must be one of pending, postponed, cancelled, done", ErrInvalidStatus)
	}

	if verr != nil {
		return verr
	}
	return nil
}
