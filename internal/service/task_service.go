package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/phrazzld/taskmanager-api/internal/store"
)

// TaskCollection is the document collection holding tasks.
const TaskCollection = "task"

// TaskFilter narrows ListTasks. Empty fields do not filter. Status and Focus
// are compared verbatim, so an unknown value matches nothing. Query matches
// title or description as a case-insensitive substring.
type TaskFilter struct {
	Status string
	Focus  string
	Query  string
}

// Validate rejects filter values no backend can compare against: invalid
// UTF-8 and embedded NUL bytes. Errors name the query parameter.
func (f TaskFilter) Validate() error {
	var verr *domain.ValidationError
	for _, param := range []struct{ name, value string }{
		{"status", f.Status},
		{"focus", f.Focus},
		{"q", f.Query},
	} {
		if utf8.ValidString(param.value) && !strings.ContainsRune(param.value, 0) {
			continue
		}
		if verr == nil {
			verr = domain.NewValidationError(param.name, "must be valid UTF-8 text without NUL characters", domain.ErrInvalidFormat)
			continue
		}
		verr.Add(param.name, "must be valid UTF-8 text without NUL characters")
	}
	if verr != nil {
		return verr
	}
	return nil
}

// toStoreFilter converts the filter into its store representation.
func (f TaskFilter) toStoreFilter() store.Filter {
	var filter store.Filter
	if f.Status != "" || f.Focus != "" {
		filter.Equal = map[string]any{}
		if f.Status != "" {
			filter.Equal[fieldStatus] = f.Status
		}
		if f.Focus != "" {
			filter.Equal[fieldFocus] = f.Focus
		}
	}
	if f.Query != "" {
		filter.Contains = &store.Contains{
			Fields: []string{fieldTitle, fieldDescription},
			Term:   f.Query,
		}
	}
	return filter
}

// TaskService provides task-related operations
type TaskService interface {
	// ListTasks returns up to store.DefaultListLimit tasks matching filter,
	// most recently created first. Filter values that are not valid
	// UTF-8, or contain NUL, yield a *domain.ValidationError.
	ListTasks(ctx context.Context, filter TaskFilter) ([]domain.Task, error)

	// CreateTask validates and persists a new task. Absent focus and status
	// are stored as their defaults.
	CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error)

	// UpdateTask applies the present fields of in to the task identified by
	// id and returns the updated task. Returns ErrTaskNotFound if the task
	// does not exist.
	UpdateTask(ctx context.Context, id string, in domain.TaskInput) (*domain.Task, error)

	// DeleteTask removes the task identified by id. Returns ErrTaskNotFound
	// if nothing was deleted.
	DeleteTask(ctx context.Context, id string) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	store  store.DocumentStore
	logger *slog.Logger
}

// NewTaskService creates a new TaskService
// It returns an error if the document store is nil.
func NewTaskService(documents store.DocumentStore, logger *slog.Logger) (TaskService, error) {
	if documents == nil {
		return nil, domain.NewValidationError("documents", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		store:  documents,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, filter TaskFilter) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := filter.Validate(); err != nil {
		log.Debug("rejecting invalid task filter", slog.String("error", err.Error()))
		return nil, err
	}

	docs, err := s.store.List(ctx, TaskCollection, filter.toStoreFilter(), store.DefaultListLimit)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("status", filter.Status),
			slog.String("focus", filter.Focus))
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}

	tasks := make([]domain.Task, 0, len(docs))
	for _, doc := range docs {
		task, err := documentToTask(doc)
		if err != nil {
			log.Error("failed to decode stored task",
				slog.String("error", err.Error()),
				slog.String("task_id", doc.ID()))
			return nil, NewTaskServiceError("list_tasks", "stored task is malformed", err)
		}
		tasks = append(tasks, *task)
	}

	log.Debug("listed tasks", slog.Int("count", len(tasks)))
	return tasks, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := in.Validate(true); err != nil {
		log.Debug("rejecting invalid task", slog.String("error", err.Error()))
		return nil, err
	}

	fields := inputToFields(in)
	if in.Focus == nil {
		fields[fieldFocus] = string(domain.DefaultFocus)
	}
	if in.Status == nil {
		fields[fieldStatus] = string(domain.DefaultStatus)
	}

	doc, err := s.store.Create(ctx, TaskCollection, fields)
	if err != nil {
		log.Error("failed to create task", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	task, err := documentToTask(doc)
	if err != nil {
		return nil, NewTaskServiceError("create_task", "stored task is malformed", err)
	}

	log.Info("task created", slog.String("task_id", task.ID))
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(ctx context.Context, id string, in domain.TaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := in.Validate(false); err != nil {
		log.Debug("rejecting invalid task update",
			slog.String("task_id", id),
			slog.String("error", err.Error()))
		return nil, err
	}

	doc, err := s.store.Update(ctx, TaskCollection, id, inputToFields(in))
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found for update", slog.String("task_id", id))
			return nil, ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id))
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}

	task, err := documentToTask(doc)
	if err != nil {
		return nil, NewTaskServiceError("update_task", "stored task is malformed", err)
	}

	log.Info("task updated", slog.String("task_id", id))
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deleted, err := s.store.Delete(ctx, TaskCollection, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("rejecting delete of unresolvable task", slog.String("task_id", id))
			return ErrTaskNotFound
		}
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id))
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	if !deleted {
		log.Debug("task not found for delete", slog.String("task_id", id))
		return ErrTaskNotFound
	}

	log.Info("task deleted", slog.String("task_id", id))
	return nil
}
