package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rdelgatto/jukebox/internal/config"
	"github.com/rdelgatto/jukebox/internal/db"
	"github.com/rdelgatto/jukebox/internal/logger"
	"github.com/rdelgatto/jukebox/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not initialized until config loads
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		logger.Log.Fatal().
			Err(err).
			Str("path", cfg.Database.Path).
			Msg("Failed to open database")
	}
	defer func() {
		_ = database.Close()
	}()

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to get SQL database handle")
	}
	if err := db.RunMigrations(sqlDB, cfg.Database.MigrationsPath); err != nil {
		logger.Log.Fatal().
			Err(err).
			Str("migrations_path", cfg.Database.MigrationsPath).
			Msg("Failed to run migrations")
	}

	srv := server.New(cfg, database)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Log.Fatal().Err(err).Msg("Server failed")
	case sig := <-quit:
		logger.Log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
