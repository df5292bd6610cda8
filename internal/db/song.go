package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rdelgatto/jukebox/internal/models"
)

// SongRepository handles database operations for songs
type SongRepository struct {
	db *DB
}

// NewSongRepository creates a new song repository
func NewSongRepository(db *DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new song into the database. Returns ErrDuplicate when
// a song with the same external ID already exists.
func (r *SongRepository) Create(ctx context.Context, song *models.Song) error {
	result := r.db.WithContext(ctx).Create(song)
	if result.Error != nil {
		return fmt.Errorf("failed to create song: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a song by its UUID
func (r *SongRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Song, error) {
	var song models.Song
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&song)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &song, nil
}

// GetByExternalID retrieves a song by the provider-assigned external ID
func (r *SongRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Song, error) {
	var song models.Song
	result := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&song)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &song, nil
}
