package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"nlpd/internal/manager"
	"nlpd/internal/store"
	"nlpd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusFor maps service errors to HTTP status codes. The NATS transport
// reports the same codes in its error replies.
func StatusFor(err error) int {
	var he HTTPError
	switch {
	case errors.As(err, &he):
		return he.StatusCode()
	case manager.IsInvalidInput(err):
		return http.StatusBadRequest
	case manager.IsTooBusy(err):
		return http.StatusTooManyRequests
	case manager.IsWorkerGone(err):
		return http.StatusServiceUnavailable
	case manager.IsInferenceFailure(err):
		return http.StatusUnprocessableEntity
	case manager.IsDeadline(err):
		return http.StatusGatewayTimeout
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}
