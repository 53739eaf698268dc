package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"Posterr/internal/api/handlers"
)

// healthCheckTimeout bounds the database ping
const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthResponse struct {
	Status    string `json:"status"`
	DB        string `json:"db"`
	Timestamp string `json:"timestamp,omitempty"`
}

// RegisterHealthRoutes registers GET /health, which reports database connectivity
func RegisterHealthRoutes(r chi.Router, db Pinger) {
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			slog.WarnContext(req.Context(), "health check failed", slog.String("error", err.Error()))
			handlers.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
				Status: "error",
				DB:     "disconnected",
			})
			return
		}

		handlers.WriteJSON(w, http.StatusOK, healthResponse{
			Status:    "ok",
			DB:        "connected",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})
}
