// Command seed creates the initial demo venues. Safe to run repeatedly:
// venues are created get-or-create by name.
package main

import (
	"context"
	"os"

	"github.com/rdelgatto/jukebox/internal/catalog"
	"github.com/rdelgatto/jukebox/internal/config"
	"github.com/rdelgatto/jukebox/internal/db"
	"github.com/rdelgatto/jukebox/internal/logger"
)

var seedVenues = []struct {
	name        string
	description string
}{
	{"L&L Hawaiian BBQ", "Authentic Hawaiian BBQ with island vibes"},
	{"Chipotle", "Fresh Mexican grill with customizable bowls"},
	{"Trujillos", "Traditional Mexican cuisine and atmosphere"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
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

	service := catalog.NewCatalogService(db.NewRepositories(database))
	ctx := context.Background()

	for _, v := range seedVenues {
		venue, created, err := service.CreateVenue(ctx, v.name, v.description)
		if err != nil {
			logger.Log.Fatal().
				Err(err).
				Str("name", v.name).
				Msg("Failed to seed venue")
		}
		if created {
			logger.Log.Info().
				Str("venue_id", venue.ID.String()).
				Str("name", venue.Name).
				Msg("Created venue")
		} else {
			logger.Log.Info().
				Str("venue_id", venue.ID.String()).
				Str("name", venue.Name).
				Msg("Venue already exists")
		}
	}
}
