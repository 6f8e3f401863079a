package api

import (
	"net/http"

	"github.com/phrazzld/taskmanager-api/internal/api/shared"
)

// Root handles GET / requests
func Root(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Task Manager API running"})
}

// Health handles GET /health requests
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithText(w, r, http.StatusOK, "OK")
}
