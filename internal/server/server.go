// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rdelgatto/jukebox/internal/api"
	"github.com/rdelgatto/jukebox/internal/catalog"
	"github.com/rdelgatto/jukebox/internal/config"
	"github.com/rdelgatto/jukebox/internal/db"
	"github.com/rdelgatto/jukebox/internal/logger"
	"github.com/rdelgatto/jukebox/internal/middleware"
	"github.com/rdelgatto/jukebox/internal/payments"
	"github.com/rdelgatto/jukebox/internal/queue"
	"github.com/rdelgatto/jukebox/internal/search"
)

// Server represents the HTTP server
type Server struct {
	config         *config.Config
	db             *db.DB
	repos          *db.Repositories
	catalogService *catalog.CatalogService
	queueService   *queue.QueueService
	searchProvider *search.FreesoundClient
	router         *gin.Engine
	server         *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) *Server {
	repos := db.NewRepositories(database)
	catalogService := catalog.NewCatalogService(repos)
	gateway := payments.NewClient(&cfg.Payments)
	queueService := queue.NewQueueService(database, repos, gateway, cfg.Payments.SongFeeCents)
	searchProvider := search.NewFreesoundClient(&cfg.Search)

	return &Server{
		config:         cfg,
		db:             database,
		repos:          repos,
		catalogService: catalogService,
		queueService:   queueService,
		searchProvider: searchProvider,
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger()) // Custom zerolog request logger
	s.router.Use(gin.Recovery())             // Panic recovery
	s.router.Use(cors.Default())             // CORS support (allows all origins)

	root := s.router.Group("")

	api.SetupHealthRoutes(root, s.db)
	api.SetupVenueRoutes(root, s.catalogService)
	api.SetupQueueRoutes(root, s.catalogService, s.queueService)
	api.SetupSearchRoutes(root, s.searchProvider, s.searchProvider, s.config.Search.DefaultPageSize)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
