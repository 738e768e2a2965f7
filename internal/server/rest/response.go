package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/screenbudget/backend/internal/common"
)

// envelope is the uniform response shape: {success, data} on the happy
// path, {success, error} otherwise.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

// writeError maps sentinel errors to status codes. Unknown errors are
// logged and reported as a generic 500 so internals never leak to clients.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, common.ErrNoBudget):
		status = http.StatusNotFound
		msg = "no budget configured for this month"
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
		msg = "not found"
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		status = http.StatusUnauthorized
		msg = "unauthorized"
	default:
		s.logger.Error(ctx, "request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: msg})
}

// parseDate reads a YYYY-MM-DD query value, returning fallback when empty.
func parseDate(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, common.ErrValidation
	}
	return t, nil
}
