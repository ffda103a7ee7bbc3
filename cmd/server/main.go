package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"projecthub/config"
	"projecthub/internal/adapters/auth"
	"projecthub/internal/adapters/googlecal"
	httpdelivery "projecthub/internal/delivery/http"
	"projecthub/internal/delivery/http/controllers"
	"projecthub/internal/delivery/http/middleware"
	"projecthub/internal/domain"
	"projecthub/internal/repository/postgres"
	"projecthub/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title ProjectHub API
// @version 1.0
// @description Project-management backend: events, associations, and the external holiday calendar feed.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	credentials, err := os.ReadFile(cfg.GoogleCredentialsFile)
	if err != nil {
		logger.Error("failed to read google credentials", "file", cfg.GoogleCredentialsFile, "err", err)
		os.Exit(1)
	}
	feed, err := googlecal.NewClient(ctx, credentials, cfg.HolidayRegion)
	if err != nil {
		logger.Error("failed to create calendar client", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	assocRepo := postgres.NewEventAssociationRepository(db)

	eventService := services.NewEventService(eventRepo, assocRepo, feed, serviceTimeout)
	assocService := services.NewEventAssociationService(assocRepo, serviceTimeout)

	reconciler := services.NewReconciler(eventRepo, assocRepo, logger, cfg.ReconcileInterval)
	go reconciler.Run(ctx)

	tokens := auth.NewJWTCodec(cfg.JWTSecret)
	eventController := controllers.NewEventController(logger, eventService, assocService)

	mux := httpdelivery.NewRouter(eventController, tokens, domain.DefaultPermissionMatrix(), logger)
	handler := middleware.RequestID(
		middleware.CORS(cfg.CORSAllowedOrigins,
			middleware.LoggingMiddleware(logger, mux)))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
	logger.Info("server shut down")
}
