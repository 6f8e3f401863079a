package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestFocusValid(t *testing.T) {
	t.Parallel()
	for _, f := range []Focus{FocusLow, FocusMedium, FocusHigh, FocusCritical} {
		if !f.Valid() {
			t.Errorf("Expected focus %q to be valid", f)
		}
	}
	for _, f := range []Focus{"", "urgent", "HIGH"} {
		if f.Valid() {
			t.Errorf("Expected focus %q to be invalid", f)
		}
	}
	if _, err := ParseFocus("urgent"); !errors.Is(err, ErrInvalidFocus) {
		t.Errorf("Expected ErrInvalidFocus, got %v", err)
	}
}

func TestStatusValid(t *testing.T) {
	t.Parallel()
	for _, s := range []Status{StatusPending, StatusPostponed, StatusCancelled, StatusDone} {
		if !s.Valid() {
			t.Errorf("Expected status %q to be valid", s)
		}
	}
	if _, err := ParseStatus("archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
	st, err := ParseStatus("done")
	if err != nil || st != StatusDone {
		t.Errorf("Expected done, got %q (%v)", st, err)
	}
}

func TestTaskInputValidate(t *testing.T) {
	t.Parallel()
	badFocus := Focus("urgent")
	badStatus := Status("archived")

	tests := []struct {
		name         string
		input        TaskInput
		requireTitle bool
		wantFields   []string
	}{
		{name: "title only", input: TaskInput{Title: strPtr("Write report")}, requireTitle: true},
		{name: "missing title on create", input: TaskInput{}, requireTitle: true, wantFields: []string{"title"}},
		{name: "missing title on update", input: TaskInput{}, requireTitle: false},
		{name: "empty title on update", input: TaskInput{Title: strPtr("")}, wantFields: []string{"title"}},
		{name: "title at limit", input: TaskInput{Title: strPtr(strings.Repeat("é", 200))}},
		{name: "title too long", input: TaskInput{Title: strPtr(strings.Repeat("a", 201))}, wantFields: []string{"title"}},
		{name: "description too long", input: TaskInput{Description: strPtr(strings.Repeat("a", 2001))}, wantFields: []string{"description"}},
		{
			name:       "bad enums",
			input:      TaskInput{Focus: &badFocus, Status: &badStatus},
			wantFields: []string{"focus", "status"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.input.Validate(tc.requireTitle)
			if len(tc.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected *ValidationError, got %v", err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Expected error to match ErrValidation")
			}
			if len(verr.Fields) != len(tc.wantFields) {
				t.Fatalf("Expected %d field errors, got %v", len(tc.wantFields), verr.Fields)
			}
			for i, f := range tc.wantFields {
				if verr.Fields[i].Field != f {
					t.Errorf("Expected field %q at %d, got %q", f, i, verr.Fields[i].Field)
				}
			}
		})
	}
}

func TestValidationErrorMatchesCause(t *testing.T) {
	t.Parallel()
	err := NewValidationError("focus", "is invalid", ErrInvalidFocus)
	if !errors.Is(err, ErrValidation) || !errors.Is(err, ErrInvalidFocus) {
		t.Errorf("Expected error to match both ErrValidation and ErrInvalidFocus")
	}
	if !strings.Contains(err.Error(), "focus is invalid") {
		t.Errorf("Unexpected message %q", err.Error())
	}
}

func TestTaskIsOverdue(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"pending past due", Task{Status: StatusPending, DueDate: &yesterday}, true},
		{"pending future due", Task{Status: StatusPending, DueDate: &tomorrow}, false},
		{"pending due now", Task{Status: StatusPending, DueDate: &now}, false},
		{"done past due", Task{Status: StatusDone, DueDate: &yesterday}, false},
		{"no due date", Task{Status: StatusPending}, false},
	}
	for _, tc := range tests {
		if got := tc.task.IsOverdue(now); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
