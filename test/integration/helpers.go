//go:build integration
// +build integration

package integration

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/rdelgatto/jukebox/internal/api"
	"github.com/rdelgatto/jukebox/internal/catalog"
	"github.com/rdelgatto/jukebox/internal/config"
	"github.com/rdelgatto/jukebox/internal/db"
	"github.com/rdelgatto/jukebox/internal/models"
	"github.com/rdelgatto/jukebox/internal/payments"
	"github.com/rdelgatto/jukebox/internal/queue"
	"github.com/rdelgatto/jukebox/internal/search"
)

// setupTestDB creates a test database with migrations applied
func setupTestDB(t *testing.T) (*db.DB, *db.Repositories, func()) {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to create test database")

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err, "Failed to get SQL DB")

	// Get absolute path to migrations directory relative to this file
	// so tests work regardless of working directory
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	testDir := filepath.Dir(filename)                     // test/integration
	rootDir := filepath.Dir(filepath.Dir(testDir))        // repo root
	migrationsPath := "file://" + filepath.Join(rootDir, "migrations")

	err = db.RunMigrations(sqlDB, migrationsPath)
	require.NoError(t, err, "Failed to run migrations")

	repos := db.NewRepositories(database)

	cleanup := func() {
		database.Close()
	}

	return database, repos, cleanup
}

// setupTestRouter wires the full route set the way the server does, with
// a real payments client in dev mode and a search provider without
// credentials so no test leaves the process
func setupTestRouter(database *db.DB, repos *db.Repositories) (*gin.Engine, *catalog.CatalogService) {
	gin.SetMode(gin.TestMode)

	catalogService := catalog.NewCatalogService(repos)
	gateway := payments.NewClient(&config.PaymentsConfig{SongFeeCents: 100})
	queueService := queue.NewQueueService(database, repos, gateway, 100)
	provider := search.NewFreesoundClient(&config.SearchConfig{BaseURL: "http://127.0.0.1:1"})

	router := gin.New()
	router.Use(gin.Recovery())

	root := router.Group("")
	api.SetupHealthRoutes(root, database)
	api.SetupVenueRoutes(root, catalogService)
	api.SetupQueueRoutes(root, catalogService, queueService)
	api.SetupSearchRoutes(root, provider, provider, 15)

	return router, catalogService
}

// createTestVenue creates a venue directly through the catalog service
func createTestVenue(t *testing.T, catalogService *catalog.CatalogService, name string) *models.Venue {
	t.Helper()

	venue, _, err := catalogService.CreateVenue(context.Background(), name, "integration test venue")
	require.NoError(t, err, "Failed to create test venue")

	return venue
}
