package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"

	"Posterr/internal/api/middleware"
	"Posterr/internal/api/routes"
	"Posterr/internal/config"
	"Posterr/internal/core/posts"
	"Posterr/internal/core/users"
	postgresRepo "Posterr/internal/db/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	slog.SetDefault(cfg.NewLogger(os.Stdout))

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid timezone:", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", slog.String("error", closeErr.Error()))
		}
	}()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}
	slog.Info("connected to database")

	if err := postgresRepo.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	slog.Info("migrations completed successfully")

	// Initialize repositories and services
	baseUserRepo := postgresRepo.NewUserRepository(db)
	userRepo, err := users.NewCachingRepository(baseUserRepo, cfg.UserCacheSize)
	if err != nil {
		log.Fatal("Failed to create user cache:", err)
	}
	userService := users.NewUserService(userRepo, loc)

	postRepo := postgresRepo.NewPostRepository(db)
	postService := posts.NewPostService(postRepo, userRepo, posts.WithLocation(loc))

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 5*time.Minute)
	defer rateLimiter.Close()
	r.Use(rateLimiter.Middleware)

	routes.RegisterPostRoutes(r, postService)
	routes.RegisterUserRoutes(r, userService)
	routes.RegisterHealthRoutes(r, db)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Posterr starting", slog.String("port", cfg.Port), slog.String("timezone", loc.String()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
}
