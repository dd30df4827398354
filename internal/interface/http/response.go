package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HELPERS
// Success bodies are written as-is; errors use the envelope below.
// ══════════════════════════════════════════════════════════════════════════════

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Success: false,
		Error:   APIError{Code: code, Message: message},
	})
}

// statusFor maps a domain error onto an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case shared.IsInvalidArgument(err):
		return http.StatusBadRequest, "INVALID_ARGUMENT"
	case shared.IsNotAuthenticated(err):
		return http.StatusUnauthorized, "NOT_AUTHENTICATED"
	case shared.IsForbidden(err):
		return http.StatusForbidden, "FORBIDDEN"
	case shared.IsNotFound(err):
		return http.StatusNotFound, "NOT_FOUND"
	case shared.IsConflict(err):
		return http.StatusConflict, "CONFLICT"
	case shared.IsUpstream(err):
		return http.StatusServiceUnavailable, "UPSTREAM_FAILURE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)

	message := "An unexpected error occurred"
	var de *shared.DomainError
	if errors.As(err, &de) {
		message = de.Message
	}
	if status >= http.StatusInternalServerError {
		if status == http.StatusServiceUnavailable {
			message = "Service temporarily unavailable"
		}
		logger.FromContext(r.Context()).Error("request failed", logger.Err(err))
	}
	writeError(w, status, code, message)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return shared.WrapError("http", "Decode", shared.ErrInvalidInput, "malformed JSON body", err)
	}
	return nil
}

// intParam reads an integer query parameter. Missing values yield def.
// Range checks belong to the caller.
func intParam(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, shared.InvalidArgument("http", "ParseQuery", key+" must be an integer")
	}
	return n, nil
}
