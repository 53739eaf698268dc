package user

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"Posterr/internal/core/users"
)

// writeJSONError writes a JSON error response
// Marshals JSON before writing headers to catch encoding errors
func writeJSONError(w http.ResponseWriter, statusCode int, errorType, message string) {
	responseBytes, err := json.Marshal(map[string]interface{}{
		"error":   errorType,
		"message": message,
	})
	if err != nil {
		slog.Error("failed to marshal error response", slog.String("error", err.Error()))
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(message))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, writeErr := w.Write(responseBytes); writeErr != nil {
		slog.Warn("failed to write error response", slog.String("error", writeErr.Error()))
	}
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error, username string) {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		writeJSONError(w, http.StatusNotFound, "UserNotFound", "User not found")

	case users.IsInvalidUsername(err):
		writeJSONError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		slog.Error("profile lookup timed out",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		writeJSONError(w, http.StatusGatewayTimeout, "Timeout", "Request timed out")

	default:
		// Internal server error - don't leak details
		slog.Error("profile lookup failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		writeJSONError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
