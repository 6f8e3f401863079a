package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskmanager-api/internal/api"
	"github.com/phrazzld/taskmanager-api/internal/api/middleware"
	"github.com/phrazzld/taskmanager-api/internal/mocks"
	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/phrazzld/taskmanager-api/internal/service"
	"github.com/phrazzld/taskmanager-api/internal/suggest"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires handlers the same way the server does.
func newTestRouter(t *testing.T, svc service.TaskService, suggester suggest.Suggester) (http.Handler, *logger.TestLogBuffer) {
	t.Helper()
	log, buf := logger.GetTestLogger(t)

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(log))

	tasks := api.NewTaskHandler(svc, log)
	suggestions := api.NewSuggestHandler(suggester, log)

	r.Get("/", api.Root)
	r.Get("/health", api.Health)
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", tasks.ListTasks)
		r.Post("/", tasks.CreateTask)
		r.Patch("/{id}", tasks.UpdateTask)
		r.Delete("/{id}", tasks.DeleteTask)
	})
	r.Post("/ai/suggest", suggestions.Suggest)
	return r, buf
}

// newMemoryRouter wires the real task service over an in-memory store.
func newMemoryRouter(t *testing.T) (http.Handler, *mocks.MemoryDocumentStore) {
	t.Helper()
	documents := mocks.NewMemoryDocumentStore()
	svc, err := service.NewTaskService(documents, nil)
	require.NoError(t, err)

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	router, _ := newTestRouter(t, svc, suggest.NewRuleSuggester(func() time.Time { return fixed }))
	return router, documents
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "body: %s", rr.Body.String())
	return out
}
