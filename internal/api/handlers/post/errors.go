package post

import (
	"errors"
	"log/slog"
	"net/http"

	"Posterr/internal/api/handlers"
	"Posterr/internal/core/posts"
)

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound *posts.NotFoundError
		valErr   *posts.ValidationError
	)

	switch {
	case errors.As(err, &notFound):
		errorType := "NotFound"
		if notFound.Resource == posts.ResourceUser {
			errorType = "UserNotFound"
		}
		handlers.WriteError(w, http.StatusNotFound, errorType, notFound.Error())

	case errors.Is(err, posts.ErrPostNotFound):
		handlers.WriteError(w, http.StatusNotFound, "NotFound", "Original post not found")

	case posts.IsLimitExceeded(err):
		handlers.WriteError(w, http.StatusBadRequest, "DailyLimitExceeded", err.Error())

	case posts.IsInvalidChain(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidChain", err.Error())

	case errors.As(err, &valErr):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", valErr.Message)

	default:
		// Don't leak internal error details to clients
		slog.ErrorContext(r.Context(), "unexpected error in post handler",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
