package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/medicare-be/internal/api"
	"github.com/isdelr/medicare-be/internal/auth"
	"github.com/isdelr/medicare-be/internal/config"
	"github.com/isdelr/medicare-be/internal/database"
	"github.com/isdelr/medicare-be/internal/logger"
	"github.com/isdelr/medicare-be/internal/monitoring"
	"github.com/isdelr/medicare-be/internal/services"
	"github.com/isdelr/medicare-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	issuer := auth.NewTokenIssuer(cfg.JWTSecret)
	eventService := services.NewEventService(db)
	userService := services.NewUserService(db, issuer)
	medicationService := services.NewMedicationService(db, eventService, hub)
	reminderService := services.NewReminderService(db, eventService)

	// Set up and run the background adherence updater
	adherenceUpdater := monitoring.NewAdherenceUpdater(medicationService, eventService, hub, cfg.AdherenceInterval)
	go adherenceUpdater.Run()

	// Set up and run the background reminder scheduler
	scheduler := monitoring.NewScheduler(reminderService, medicationService, eventService, hub)
	go scheduler.Run()

	// Set up router
	router := api.NewRouter(hub, issuer, userService, medicationService, reminderService, eventService, cfg.AllowedOrigin)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	adherenceUpdater.Stop()
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
