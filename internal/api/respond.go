package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/planbook/planbook/internal/store"
)

// errorResponse is the uniform error body: {"error": "<message>"}.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse is the body for successful deletes.
type messageResponse struct {
	Message string `json:"message"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError writes the uniform error body with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// mapStoreError converts store errors to HTTP responses. Not-found errors
// keep the exact resource wording of the API contract; everything else is
// logged with detail and surfaced as a generic 500.
func mapStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrGoalNotFound):
		writeError(w, http.StatusNotFound, "Monthly goal not found")
	case errors.Is(err, store.ErrTodoNotFound):
		writeError(w, http.StatusNotFound, "Todo not found")
	default:
		slog.Error("store error", "error", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
