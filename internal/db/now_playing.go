package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/rdelgatto/jukebox/internal/models"
)

// NowPlayingRepository handles database operations for per-venue playback cursors
type NowPlayingRepository struct {
	db *DB
}

// NewNowPlayingRepository creates a new now-playing repository
func NewNowPlayingRepository(db *DB) *NowPlayingRepository {
	return &NowPlayingRepository{db: db}
}

// GetByVenue retrieves a venue's cursor with the referenced queue item and
// its song preloaded. Returns ErrNotFound when the venue has never advanced.
func (r *NowPlayingRepository) GetByVenue(ctx context.Context, venueID uuid.UUID) (*models.NowPlaying, error) {
	var cursor models.NowPlaying
	result := r.db.WithContext(ctx).
		Preload("QueueItem").
		Preload("QueueItem.Song").
		Where("venue_id = ?", venueID.String()).
		First(&cursor)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &cursor, nil
}
