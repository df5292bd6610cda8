// Package api exposes the jukebox HTTP contract over Gin handlers.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rdelgatto/jukebox/internal/catalog"
	"github.com/rdelgatto/jukebox/internal/logger"
)

const handlerTimeout = 5 * time.Second

// VenueHandler handles venue-related API requests
type VenueHandler struct {
	catalogService *catalog.CatalogService
}

// NewVenueHandler creates a new venue handler instance
func NewVenueHandler(catalogService *catalog.CatalogService) *VenueHandler {
	return &VenueHandler{
		catalogService: catalogService,
	}
}

// ListVenues handles GET /venues/
func (h *VenueHandler) ListVenues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	venues, err := h.catalogService.ListActiveVenues(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list venues")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve venue list",
		})
		return
	}

	responses := make([]*VenueResponse, len(venues))
	for i, v := range venues {
		responses[i] = toVenueResponse(v)
	}

	c.JSON(http.StatusOK, VenueListResponse{
		Venues: responses,
	})
}

// GetVenue handles GET /venues/:venueID/
func (h *VenueHandler) GetVenue(c *gin.Context) {
	id, ok := parseVenueID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	venue, err := h.catalogService.GetVenue(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrVenueNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Venue not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("venue_id", id.String()).
			Msg("Failed to get venue by ID")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve venue",
		})
		return
	}

	c.JSON(http.StatusOK, toVenueResponse(venue))
}

// parseVenueID validates the venueID path parameter, writing a 400
// response when it is not a UUID
func parseVenueID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("venueID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid venue ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// SetupVenueRoutes registers venue routes
func SetupVenueRoutes(group *gin.RouterGroup, catalogService *catalog.CatalogService) {
	handler := NewVenueHandler(catalogService)

	group.GET("/venues/", handler.ListVenues)
	group.GET("/venues/:venueID/", handler.GetVenue)
}
