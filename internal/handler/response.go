package handler

// RESPONSE HELPERS:
// These standardise how handlers send JSON and translate errors.
//
// CONSISTENT ERROR FORMAT:
// Every error response has the same shape the frontend already speaks:
//
//	{"error": "Tip not found or not yours"}
//
// ERROR MAPPING:
// This is the ONLY place domain errors become HTTP status codes. The service
// layer returns apperror values (Validation, Conflict, Unauthorized,
// NotFound); writeError maps them to 400/400/401/404. Conflict → 400 (not
// 409) is the API's published contract for duplicate usernames, so it stays.
// Anything unrecognised is logged in full and surfaced as a generic 500 —
// internal detail (file paths, SQL, stack traces) never reaches the client.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/tipboard/internal/apperror"
)

// ErrorResponse is the standard error payload for all API endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends a JSON response with the given status code.
//
// Headers and status MUST be set before the body: the first Write flushes
// them, and later changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone — all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and sends it.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest // published contract: duplicate username → 400
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		}

		writeJSON(w, status, ErrorResponse{Error: appErr.Message})
		return
	}

	// Unexpected error: full detail in the log, none of it in the response.
	logger.Error("internal error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
