package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskmanager-api/internal/api/shared"
	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/phrazzld/taskmanager-api/internal/redact"
)

// decodeAndValidate decodes the JSON body into req and validates it against
// its struct tags. On failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	log := logger.FromContextOrDefault(r.Context(), nil)

	if err := shared.DecodeJSON(w, r, req); err != nil {
		log.Debug("rejecting request body", slog.String("error", redact.Error(err)))
		HandleAPIError(w, r, err, "")
		return false
	}

	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}

	return true
}
