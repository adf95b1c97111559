package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kmehta/imagebin"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   message,
		Details: details,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes the response matching the error taxonomy: validation
// errors map to 400, unknown ids and missing blobs to 404, ownership
// failures to 403, and everything else to a generic 500 with the error
// string as diagnostic detail.
func HandleError(w http.ResponseWriter, err error) {
	slog.Error("request error", "error", err)

	switch {
	case errors.Is(err, imagebin.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, imagebin.ErrNotFound), errors.Is(err, imagebin.ErrBlobNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, imagebin.ErrUnauthorized):
		WriteError(w, http.StatusForbidden, err.Error(), "")
	default:
		WriteError(w, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
