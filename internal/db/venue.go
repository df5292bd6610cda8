// Package db provides database connection management and repository interfaces.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rdelgatto/jukebox/internal/models"
)

// VenueRepository handles database operations for venues
type VenueRepository struct {
	db *DB
}

// NewVenueRepository creates a new venue repository
func NewVenueRepository(db *DB) *VenueRepository {
	return &VenueRepository{db: db}
}

// Create inserts a new venue into the database
func (r *VenueRepository) Create(ctx context.Context, venue *models.Venue) error {
	result := r.db.WithContext(ctx).Create(venue)
	if result.Error != nil {
		return fmt.Errorf("failed to create venue: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a venue by its UUID
func (r *VenueRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	var venue models.Venue
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&venue)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &venue, nil
}

// GetByName retrieves a venue by its display name
func (r *VenueRepository) GetByName(ctx context.Context, name string) (*models.Venue, error) {
	var venue models.Venue
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&venue)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &venue, nil
}

// ListActive retrieves all active venues ordered by name
func (r *VenueRepository) ListActive(ctx context.Context) ([]*models.Venue, error) {
	var venues []*models.Venue
	result := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&venues)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list active venues: %w", MapGormError(result.Error))
	}
	return venues, nil
}

// SetActive updates a venue's active flag
func (r *VenueRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Venue{}).
		Where("id = ?", id.String()).
		Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to update venue active flag: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
