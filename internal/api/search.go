package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rdelgatto/jukebox/internal/logger"
	"github.com/rdelgatto/jukebox/internal/search"
)

const maxSearchPageSize = 50

// SoundDetailer fetches detail for a single provider sound
type SoundDetailer interface {
	GetSound(ctx context.Context, soundID string) (*search.Result, error)
}

// SearchHandler handles song search API requests
type SearchHandler struct {
	provider        search.Provider
	detailer        SoundDetailer
	defaultPageSize int
}

// NewSearchHandler creates a new search handler instance
func NewSearchHandler(provider search.Provider, detailer SoundDetailer, defaultPageSize int) *SearchHandler {
	return &SearchHandler{
		provider:        provider,
		detailer:        detailer,
		defaultPageSize: defaultPageSize,
	}
}

// SearchSongs handles GET /songs/search/?q=&page=&page_size=
func (h *SearchHandler) SearchSongs(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_query",
			Message: `Query parameter "q" is required`,
		})
		return
	}

	page := parsePositiveInt(c.Query("page"), 1)
	pageSize := parsePositiveInt(c.Query("page_size"), h.defaultPageSize)
	if pageSize > maxSearchPageSize {
		pageSize = maxSearchPageSize
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	// Provider failures fall back to mock data inside the provider, so
	// this only fails on programming errors
	results, err := h.provider.Search(ctx, query, page, pageSize)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("query", query).
			Msg("Song search failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "search_failed",
			Message: "Failed to search songs",
		})
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetSong handles GET /songs/:soundID/
func (h *SearchHandler) GetSong(c *gin.Context) {
	soundID := c.Param("soundID")

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	result, err := h.detailer.GetSound(ctx, soundID)
	if err != nil {
		if errors.Is(err, search.ErrSoundNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Song not found",
			})
			return
		}
		logger.Log.Error().
			Err(err).
			Str("sound_id", soundID).
			Msg("Sound detail lookup failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "provider_error",
			Message: "Failed to fetch song details",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// parsePositiveInt parses a positive integer query value, falling back to
// def on absence or garbage
func parsePositiveInt(value string, def int) int {
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// SetupSearchRoutes registers song search routes
func SetupSearchRoutes(group *gin.RouterGroup, provider search.Provider, detailer SoundDetailer, defaultPageSize int) {
	handler := NewSearchHandler(provider, detailer, defaultPageSize)

	group.GET("/songs/search/", handler.SearchSongs)
	group.GET("/songs/:soundID/", handler.GetSong)
}
