package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkazanov/swapcircle-backend/internal/config"
	"github.com/mkazanov/swapcircle-backend/internal/infrastructure/container"
	"github.com/mkazanov/swapcircle-backend/pkg/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Init("swapcircle", true)
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init("swapcircle", cfg.Server.Env == "development")
	logger.SetLevel(cfg.Logging.Level)

	// Initialize dependency injection container
	app, err := container.NewContainer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("error closing application")
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		if err := app.Server.Start(); err != nil {
			log.Error().Err(err).Msg("server error")
			quit <- syscall.SIGTERM
		}
	}()

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("server started")

	// Wait for interrupt signal
	<-quit

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
		os.Exit(1)
	}

	log.Info().Msg("server exited properly")
}
