package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/salesdash-be/internal/api"
	"github.com/isdelr/salesdash-be/internal/auth"
	"github.com/isdelr/salesdash-be/internal/config"
	"github.com/isdelr/salesdash-be/internal/database"
	"github.com/isdelr/salesdash-be/internal/logger"
	"github.com/isdelr/salesdash-be/internal/monitoring"
	"github.com/isdelr/salesdash-be/internal/repositories/users"
	"github.com/isdelr/salesdash-be/internal/sanitize"
	"github.com/isdelr/salesdash-be/internal/services"
	"github.com/isdelr/salesdash-be/internal/validation"
	"github.com/rs/zerolog/log"
)

func main() {
	startedAt := time.Now()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.IsProduction())

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.TokenTTL)
	sanitizer := sanitize.New()
	eventService := services.NewEventService(db)
	userService := services.NewUserService(
		users.NewSQLiteRepository(db),
		auth.NewBcryptHasher(cfg.BcryptCost),
		tokens,
		sanitizer,
		validation.New(validation.ParsePolicy(cfg.PasswordPolicy)),
		eventService,
	)
	healthService := services.NewHealthService(db, startedAt)

	// Set up and run the background scheduler
	scheduler, err := monitoring.NewScheduler(eventService, cfg.EventRetention, cfg.RetentionCron)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure scheduler")
	}
	scheduler.Run()

	// Set up router
	router := api.NewRouter(api.Deps{
		Users:          userService,
		Events:         eventService,
		Health:         healthService,
		Tokens:         tokens,
		Sanitizer:      sanitizer,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.AppEnv).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
