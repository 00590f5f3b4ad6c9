package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"notifyd/internal/registry"
	"notifyd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeServiceError maps registry errors to status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case registry.IsValidation(err):
		IncrementRejected("validation")
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case registry.IsNotFound(err):
		IncrementRejected("not_found")
		writeJSONError(w, http.StatusNotFound, err.Error())
	default:
		var he HTTPError
		if errors.As(err, &he) {
			writeJSONError(w, he.StatusCode(), he.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && zlog != nil {
		zlog.Error().Err(err).Msg("encode response")
	}
}
