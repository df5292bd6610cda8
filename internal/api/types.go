package api

import (
	"time"

	"github.com/rdelgatto/jukebox/internal/models"
)

// ErrorResponse represents an error in API responses. Error is a stable
// machine-readable code; Message is human-readable detail.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// VenueResponse represents a venue in API responses
type VenueResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// VenueListResponse represents a list of venues
type VenueListResponse struct {
	Venues []*VenueResponse `json:"venues"`
}

// QueueItemResponse represents a queue item with its song embedded
type QueueItemResponse struct {
	ID              string       `json:"id"`
	VenueID         string       `json:"venue_id"`
	Song            *models.Song `json:"song,omitempty"`
	RequestedBy     *string      `json:"requested_by,omitempty"`
	IsPaid          bool         `json:"is_paid"`
	AmountPaidCents int64        `json:"amount_paid_cents"`
	Status          string       `json:"status"`
	QueuedAt        time.Time    `json:"queued_at"`
	PlayedAt        *time.Time   `json:"played_at,omitempty"`
}

// QueueSnapshotResponse represents a venue's queue state: the currently
// playing item (null when nothing is playing) and the next queued items
// in playback order
type QueueSnapshotResponse struct {
	VenueID          string               `json:"venue_id"`
	VenueName        string               `json:"venue_name"`
	CurrentlyPlaying *QueueItemResponse   `json:"currently_playing"`
	Queue            []*QueueItemResponse `json:"queue"`
}

// AddToQueueRequest represents a request to add a song to a venue's queue
type AddToQueueRequest struct {
	SongID          string  `json:"song_id" binding:"required"`
	Title           string  `json:"title" binding:"required"`
	Artist          string  `json:"artist"`
	Duration        int     `json:"duration" binding:"required,gt=0"`
	AlbumArtURL     *string `json:"album_art_url,omitempty"`
	RequestedBy     *string `json:"requested_by,omitempty"`
	IsPaid          bool    `json:"is_paid"`
	PaymentMethodID string  `json:"payment_method_id"`
}

// AddToQueueResponse represents a successfully enqueued request
type AddToQueueResponse struct {
	Message   string             `json:"message"`
	QueueItem *QueueItemResponse `json:"queue_item"`
}

// AdvanceResponse represents the result of advancing a venue's playback
type AdvanceResponse struct {
	Message          string             `json:"message"`
	CurrentlyPlaying *QueueItemResponse `json:"currently_playing"`
}

// toVenueResponse converts a venue model to API response format
func toVenueResponse(v *models.Venue) *VenueResponse {
	return &VenueResponse{
		ID:          v.ID.String(),
		Name:        v.Name,
		Description: v.Description,
		IsActive:    v.IsActive,
		CreatedAt:   v.CreatedAt,
	}
}

// toQueueItemResponse converts a queue item model to API response format
func toQueueItemResponse(item *models.QueueItem) *QueueItemResponse {
	return &QueueItemResponse{
		ID:              item.ID.String(),
		VenueID:         item.VenueID.String(),
		Song:            item.Song,
		RequestedBy:     item.RequestedBy,
		IsPaid:          item.IsPaid,
		AmountPaidCents: item.AmountPaidCents,
		Status:          string(item.Status),
		QueuedAt:        item.QueuedAt,
		PlayedAt:        item.PlayedAt,
	}
}
