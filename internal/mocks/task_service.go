package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/service"
)

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	// Custom behavior functions
	ListTasksFn  func(ctx context.Context, filter service.TaskFilter) ([]domain.Task, error)
	CreateTaskFn func(ctx context.Context, in domain.TaskInput) (*domain.Task, error)
	UpdateTaskFn func(ctx context.Context, id string, in domain.TaskInput) (*domain.Task, error)
	DeleteTaskFn func(ctx context.Context, id string) error

	// Default response values
	Tasks []domain.Task
	Task  *domain.Task
	Err   error

	// Call tracking for verification
	mu      sync.Mutex
	Filters []service.TaskFilter
	Inputs  []domain.TaskInput
	IDs     []string
}

// Ensure MockTaskService implements service.TaskService interface
var _ service.TaskService = (*MockTaskService)(nil)

// ListTasks implements the service.TaskService interface
func (m *MockTaskService) ListTasks(ctx context.Context, filter service.TaskFilter) ([]domain.Task, error) {
	m.mu.Lock()
	m.Filters = append(m.Filters, filter)
	m.mu.Unlock()

	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, filter)
	}
	return m.Tasks, m.Err
}

// CreateTask implements the service.TaskService interface
func (m *MockTaskService) CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	m.mu.Lock()
	m.Inputs = append(m.Inputs, in)
	m.mu.Unlock()

	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, in)
	}
	return m.Task, m.Err
}

// UpdateTask implements the service.TaskService interface
func (m *MockTaskService) UpdateTask(ctx context.Context, id string, in domain.TaskInput) (*domain.Task, error) {
	m.mu.Lock()
	m.IDs = append(m.IDs, id)
	m.Inputs = append(m.Inputs, in)
	m.mu.Unlock()

	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, id, in)
	}
	return m.Task, m.Err
}

// DeleteTask implements the service.TaskService interface
func (m *MockTaskService) DeleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	m.IDs = append(m.IDs, id)
	m.mu.Unlock()

	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, id)
	}
	return m.Err
}

// Calls returns how many inputs were recorded by CreateTask and UpdateTask.
func (m *MockTaskService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Inputs)
}
