package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/taskmanager-api/internal/api/shared"
	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/service"
	"github.com/phrazzld/taskmanager-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation sentinel", domain.ErrValidation, http.StatusUnprocessableEntity},
		{"validation error", domain.NewValidationError("title", "is required", nil), http.StatusUnprocessableEntity},
		{"malformed body", fmt.Errorf("%w: eof", shared.ErrMalformedBody), http.StatusBadRequest},
		{"task not found", service.ErrTaskNotFound, http.StatusNotFound},
		{"wrapped task not found", fmt.Errorf("lookup: %w", service.ErrTaskNotFound), http.StatusNotFound},
		{"store failure", store.NewStoreError("task", "list", "timeout", errors.New("i/o")), http.StatusInternalServerError},
		{"unknown", errors.New("something"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "Task not found", GetSafeErrorMessage(service.ErrTaskNotFound))
	assert.Equal(t, "Invalid request format", GetSafeErrorMessage(shared.ErrMalformedBody))
	assert.Equal(t, shared.ValidationFailedMessage, GetSafeErrorMessage(domain.ErrValidation))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))

	leaky := errors.New("pq: password authentication failed for user admin")
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(leaky))
}

func TestHandleAPIError(t *testing.T) {
	t.Run("validation error lists fields", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tasks", nil)

		HandleAPIError(rr, req, domain.NewValidationError("focus", "must be one of low, medium, high, critical", domain.ErrInvalidFocus), "")

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.JSONEq(t,
			`{"error":"Validation failed","fields":[{"field":"focus","message":"must be one of low, medium, high, critical"}]}`,
			rr.Body.String())
	})

	t.Run("default message replaces generic 500", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)

		HandleAPIError(rr, req, errors.New("driver exploded"), "Failed to list tasks")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"Failed to list tasks"}`, rr.Body.String())
	})

	t.Run("default message does not replace not found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/tasks/x", nil)

		HandleAPIError(rr, req, service.ErrTaskNotFound, "Failed to delete task")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"Task not found"}`, rr.Body.String())
	})
}
