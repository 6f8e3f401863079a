package service

import (
	"fmt"
	"time"

	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/store"
)

// Document keys of a stored task.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldFocus       = "focus"
	fieldStatus      = "status"
	fieldDueDate     = "due_date"
)

// inputToFields converts the present fields of in into document fields.
// Enum values are stored as plain strings so that equality filters match
// across every backend.
func inputToFields(in domain.TaskInput) store.Document {
	fields := store.Document{}
	if in.Title != nil {
		fields[fieldTitle] = *in.Title
	}
	if in.Description != nil {
		fields[fieldDescription] = *in.Description
	}
	if in.Focus != nil {
		fields[fieldFocus] = string(*in.Focus)
	}
	if in.Status != nil {
		fields[fieldStatus] = string(*in.Status)
	}
	if in.DueDate != nil {
		fields[fieldDueDate] = in.DueDate.UTC()
	}
	return fields
}

// documentToTask converts a stored document into a task. Missing or unknown
// focus and status values read back as the defaults.
func documentToTask(doc store.Document) (*domain.Task, error) {
	task := &domain.Task{
		ID:     doc.ID(),
		Focus:  domain.DefaultFocus,
		Status: domain.DefaultStatus,
	}

	if s, ok := doc[fieldTitle].(string); ok {
		task.Title = s
	}
	if s, ok := doc[fieldDescription].(string); ok {
		task.Description = &s
	}
	if s, ok := doc[fieldFocus].(string); ok {
		if f, err := domain.ParseFocus(s); err == nil {
			task.Focus = f
		}
	}
	if s, ok := doc[fieldStatus].(string); ok {
		if st, err := domain.ParseStatus(s); err == nil {
			task.Status = st
		}
	}

	var err error
	if task.DueDate, err = timeField(doc, fieldDueDate); err != nil {
		return nil, err
	}
	if task.CreatedAt, err = timeField(doc, store.FieldCreatedAt); err != nil {
		return nil, err
	}
	if task.UpdatedAt, err = timeField(doc, store.FieldUpdatedAt); err != nil {
		return nil, err
	}
	return task, nil
}

// timeField reads a timestamp that a backend returned either natively or as
// an ISO-8601 string.
func timeField(doc store.Document, key string) (*time.Time, error) {
	switch v := doc[key].(type) {
	case nil:
		return nil, nil
	case time.Time:
		t := v.UTC()
		return &t, nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		t := v.UTC()
		return &t, nil
	case string:
		if v == "" {
			return nil, nil
		}
		t, err := domain.ParseTimestamp(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		return &t, nil
	default:
		return nil, fmt.Errorf("field %s: %w: unexpected type %T", key, domain.ErrInvalidFormat, v)
	}
}
