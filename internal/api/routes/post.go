package routes

import (
	"github.com/go-chi/chi/v5"

	"Posterr/internal/api/handlers/post"
	"Posterr/internal/core/posts"
)

// RegisterPostRoutes registers post endpoints on the router
func RegisterPostRoutes(r chi.Router, service posts.Service) {
	createHandler := post.NewCreateHandler(service)
	listHandler := post.NewListHandler(service)

	r.Post("/posts", createHandler.HandleCreate)
	r.Get("/posts", listHandler.HandleList)
}
