package main

import (
	"context"
	"database/sql"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dpetrakis/pulsedash/internal"
	"github.com/dpetrakis/pulsedash/internal/config"
	"github.com/dpetrakis/pulsedash/internal/handlers"
	"github.com/dpetrakis/pulsedash/internal/logging"
	"github.com/dpetrakis/pulsedash/internal/reviews"
	"github.com/dpetrakis/pulsedash/internal/routes"
	"github.com/dpetrakis/pulsedash/internal/videos"
	"github.com/jonboulle/clockwork"
)

func main() {
	// Initialize shared dependencies
	logger := logging.NewLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String(logging.ErrorKey, err.Error()))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.String("api_addr", cfg.APIAddr()),
		slog.String("health_addr", cfg.HealthAddr()),
		slog.String("review_store", cfg.ReviewStore),
	)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Pick the review store: seeded in-memory by default, PostgreSQL when configured
	var reviewRepo reviews.Repository
	var db *sql.DB
	switch cfg.ReviewStore {
	case config.StorePostgres:
		db, err = reviews.Connect(cfg.PostgresConnString())
		if err != nil {
			logger.Error("failed to initialise database", slog.String(logging.ErrorKey, err.Error()))
			os.Exit(1)
		}
		defer db.Close()
		reviewRepo = reviews.NewPostgresRepository(db)
		logger.Info("database ready")
	default:
		memRepo := reviews.NewMemoryRepository()
		memRepo.Seed(cfg.SeedReviews, time.Now(), rng)
		reviewRepo = memRepo
		logger.Info("memory review store seeded", slog.Int("reviews", cfg.SeedReviews))
	}

	// Simulated upload/moderation pipeline
	processor := videos.NewProcessor(cfg.SimulatorConfig(), clockwork.NewRealClock(), rng, logger)

	h := handlers.New(reviewRepo, processor)

	// Create health check and dashboard http services
	healthService := internal.NewService(internal.ServiceConfig{
		Addr:   cfg.HealthAddr(),
		Logger: logger,
		Routes: routes.RegisterHealthRoutes(db),
	})
	apiService := internal.NewService(internal.ServiceConfig{
		Addr:         cfg.APIAddr(),
		Logger:       logger,
		Routes:       routes.RegisterDashboardRoutes(h, cfg.JWTSecret, cfg.RateLimitConfig()),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})

	// Start http service threads
	go func() {
		if err := healthService.ListenAndServeWrapper("health check api"); err != nil && err != http.ErrServerClosed {
			logger.Error("health check service failed", slog.String(logging.ErrorKey, err.Error()))
			os.Exit(1)
		}
	}()
	go func() {
		if err := apiService.ListenAndServeWrapper("dashboard api"); err != nil && err != http.ErrServerClosed {
			logger.Error("dashboard service failed", slog.String(logging.ErrorKey, err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit

	// Shutdown http service threads gracefully
	logger.Info("shutting down service", slog.Any("OS signal received", os.Signal.String(receivedSignal)))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiService.HTTPServer.Shutdown(ctx); err != nil {
		logger.Error("API service shutdown error", slog.String(logging.ErrorKey, err.Error()))
	}
	if err := healthService.HTTPServer.Shutdown(ctx); err != nil {
		logger.Error("health service shutdown error", slog.String(logging.ErrorKey, err.Error()))
	}
	logger.Info("exiting...")
}
