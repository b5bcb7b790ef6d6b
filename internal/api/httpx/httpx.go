// Package httpx holds the JSON envelope helpers shared by handlers and
// middleware.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/isdelr/salesdash-be/internal/apperr"
	"github.com/rs/zerolog/log"
)

const timestampLayout = "2006-01-02 15:04:05"

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Message   string              `json:"message"`
	Code      string              `json:"code"`
	Status    int                 `json:"status"`
	Timestamp string              `json:"timestamp"`
	Details   map[string][]string `json:"details,omitempty"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuth, apperr.KindToken:
		return http.StatusUnauthorized
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// WriteError renders err as an ErrorResponse. Errors that are not
// *apperr.Error are reported as internal errors without leaking their text.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal("internal server error", err)
	}

	status := StatusFor(appErr.Kind)
	msg := appErr.Message
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("code", appErr.Code).Msg("Request failed")
	}

	WriteJSON(w, status, ErrorResponse{
		Message:   msg,
		Code:      appErr.Code,
		Status:    status,
		Timestamp: time.Now().Format(timestampLayout),
		Details:   appErr.Details,
	})
}

// DecodeJSON reads a JSON body into dst. Malformed bodies become a
// validation error.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Validation("request body is required")
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}
