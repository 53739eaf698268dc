package user

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Posterr/internal/core/users"
)

// ProfileHandler serves public user profiles
type ProfileHandler struct {
	userService users.UserService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(userService users.UserService) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
	}
}

// HandleGetProfile handles GET /users/{username}
// Responds with {username, dateJoined, postCount}.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := h.userService.GetProfile(r.Context(), username)
	if err != nil {
		handleServiceError(w, err, username)
		return
	}

	// Marshal JSON before writing headers to catch encoding errors early
	responseBytes, err := json.Marshal(profile)
	if err != nil {
		slog.Error("failed to marshal profile response",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		writeJSONError(w, http.StatusInternalServerError, "InternalServerError", "Failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, writeErr := w.Write(responseBytes); writeErr != nil {
		slog.Warn("failed to write profile response",
			slog.String("username", username),
			slog.String("error", writeErr.Error()),
		)
	}
}
