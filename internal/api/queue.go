package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rdelgatto/jukebox/internal/catalog"
	"github.com/rdelgatto/jukebox/internal/logger"
	"github.com/rdelgatto/jukebox/internal/models"
	"github.com/rdelgatto/jukebox/internal/queue"
)

// QueueHandler handles queue-related API requests
type QueueHandler struct {
	catalogService *catalog.CatalogService
	queueService   *queue.QueueService
}

// NewQueueHandler creates a new queue handler instance
func NewQueueHandler(catalogService *catalog.CatalogService, queueService *queue.QueueService) *QueueHandler {
	return &QueueHandler{
		catalogService: catalogService,
		queueService:   queueService,
	}
}

// GetQueue handles GET /venues/:venueID/queue/
func (h *QueueHandler) GetQueue(c *gin.Context) {
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
		h.queryFailed(c, err, id, "Failed to retrieve venue")
		return
	}

	playing, err := h.queueService.GetNowPlaying(ctx, id)
	if err != nil {
		h.queryFailed(c, err, id, "Failed to retrieve now playing")
		return
	}

	items, err := h.queueService.PeekQueue(ctx, id, queue.DefaultQueueDepth)
	if err != nil {
		h.queryFailed(c, err, id, "Failed to retrieve queue")
		return
	}

	snapshot := QueueSnapshotResponse{
		VenueID:   venue.ID.String(),
		VenueName: venue.Name,
		Queue:     make([]*QueueItemResponse, len(items)),
	}
	if playing != nil {
		snapshot.CurrentlyPlaying = toQueueItemResponse(playing)
	}
	for i, item := range items {
		snapshot.Queue[i] = toQueueItemResponse(item)
	}

	c.JSON(http.StatusOK, snapshot)
}

// AddToQueue handles POST /venues/:venueID/queue/add/
func (h *QueueHandler) AddToQueue(c *gin.Context) {
	id, ok := parseVenueID(c)
	if !ok {
		return
	}

	var req AddToQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	if _, err := h.catalogService.GetVenue(ctx, id); err != nil {
		if errors.Is(err, catalog.ErrVenueNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Venue not found",
			})
			return
		}
		h.queryFailed(c, err, id, "Failed to retrieve venue")
		return
	}

	song, err := h.catalogService.ResolveSong(ctx, req.SongID, req.Title, req.Artist, req.Duration, req.AlbumArtURL)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidSong) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_song",
				Message: err.Error(),
			})
			return
		}
		h.queryFailed(c, err, id, "Failed to resolve song")
		return
	}

	item, err := h.queueService.Enqueue(ctx, id, song, req.RequestedBy, req.IsPaid, req.PaymentMethodID)
	if err != nil {
		switch {
		case errors.Is(err, queue.ErrMissingPaymentMethod):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "missing_payment_method",
				Message: "Payment method required for paid songs",
			})
		case errors.Is(err, queue.ErrPaymentDeclined):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "payment_declined",
				Message: "Payment declined",
			})
		case errors.Is(err, queue.ErrPaymentFailed):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "payment_failed",
				Message: "Payment could not be processed",
			})
		default:
			logger.Log.Error().
				Err(err).
				Str("venue_id", id.String()).
				Msg("Failed to enqueue request")
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "enqueue_failed",
				Message: "Failed to add song to queue",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, AddToQueueResponse{
		Message:   "Song added to queue successfully",
		QueueItem: toQueueItemResponse(item),
	})
}

// NextSong handles POST /venues/:venueID/next/ (venue staff use)
func (h *QueueHandler) NextSong(c *gin.Context) {
	id, ok := parseVenueID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	next, err := h.queueService.Advance(ctx, id)
	if err != nil {
		if errors.Is(err, queue.ErrVenueNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Venue not found",
			})
			return
		}
		logger.Log.Error().
			Err(err).
			Str("venue_id", id.String()).
			Msg("Failed to advance queue")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "advance_failed",
			Message: "Failed to advance to next song",
		})
		return
	}

	response := AdvanceResponse{Message: "Moved to next song"}
	if next != nil {
		response.CurrentlyPlaying = toQueueItemResponse(next)
	}

	c.JSON(http.StatusOK, response)
}

// SkipItem handles POST /venues/:venueID/queue/:itemID/skip/ (venue staff use)
func (h *QueueHandler) SkipItem(c *gin.Context) {
	venueID, ok := parseVenueID(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid queue item ID format",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	item, err := h.queueService.Skip(ctx, venueID, itemID)
	if err != nil {
		switch {
		case errors.Is(err, queue.ErrVenueNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Venue not found",
			})
		case errors.Is(err, queue.ErrItemNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Queue item not found",
			})
		case errors.Is(err, models.ErrIllegalTransition):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "not_skippable",
				Message: "Only queued items can be skipped",
			})
		default:
			logger.Log.Error().
				Err(err).
				Str("venue_id", venueID.String()).
				Str("queue_item_id", itemID.String()).
				Msg("Failed to skip queue item")
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "skip_failed",
				Message: "Failed to skip queue item",
			})
		}
		return
	}

	c.JSON(http.StatusOK, toQueueItemResponse(item))
}

func (h *QueueHandler) queryFailed(c *gin.Context, err error, venueID uuid.UUID, message string) {
	logger.Log.Error().
		Err(err).
		Str("venue_id", venueID.String()).
		Msg(message)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "query_failed",
		Message: message,
	})
}

// SetupQueueRoutes registers queue routes
func SetupQueueRoutes(group *gin.RouterGroup, catalogService *catalog.CatalogService, queueService *queue.QueueService) {
	handler := NewQueueHandler(catalogService, queueService)

	group.GET("/venues/:venueID/queue/", handler.GetQueue)
	group.POST("/venues/:venueID/queue/add/", handler.AddToQueue)
	group.POST("/venues/:venueID/next/", handler.NextSong)
	group.POST("/venues/:venueID/queue/:itemID/skip/", handler.SkipItem)
}
