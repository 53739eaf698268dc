package routes

import (
	"github.com/go-chi/chi/v5"

	"Posterr/internal/api/handlers/user"
	"Posterr/internal/core/users"
)

// RegisterUserRoutes registers user endpoints on the router
func RegisterUserRoutes(r chi.Router, service users.UserService) {
	profileHandler := user.NewProfileHandler(service)

	r.Get("/users/{username}", profileHandler.HandleGetProfile)
}
