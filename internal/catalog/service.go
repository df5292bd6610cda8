// Package catalog maintains the persisted, deduplicated registry of songs
// and venues.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rdelgatto/jukebox/internal/db"
	"github.com/rdelgatto/jukebox/internal/logger"
	"github.com/rdelgatto/jukebox/internal/models"
)

// CatalogService handles business logic for venue and song records
type CatalogService struct {
	repos *db.Repositories
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(repos *db.Repositories) *CatalogService {
	return &CatalogService{
		repos: repos,
	}
}

// ResolveSong returns the song with the given external ID, creating it when
// absent. The upsert is idempotent with first-write-wins semantics: a song
// that already exists is returned unchanged regardless of the metadata in
// the call. Concurrent calls with the same new external ID never create
// duplicates; the unique index on external_id arbitrates and losers fetch
// the winner's record.
func (s *CatalogService) ResolveSong(ctx context.Context, externalID, title, artist string, duration int, albumArtURL *string) (*models.Song, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, fmt.Errorf("external id is required: %w", ErrInvalidSong)
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required: %w", ErrInvalidSong)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive: %w", ErrInvalidSong)
	}

	if existing, err := s.repos.Songs.GetByExternalID(ctx, externalID); err == nil {
		return existing, nil
	} else if !db.IsNotFound(err) {
		logger.Log.Error().
			Err(err).
			Str("external_id", externalID).
			Msg("Failed to look up song by external ID")
		return nil, fmt.Errorf("failed to resolve song: %w", err)
	}

	song := models.NewSong(externalID, title, artist, duration)
	song.AlbumArtURL = albumArtURL

	if err := s.repos.Songs.Create(ctx, song); err != nil {
		// A concurrent resolve won the insert race; its record wins
		if db.IsDuplicate(err) {
			winner, getErr := s.repos.Songs.GetByExternalID(ctx, externalID)
			if getErr != nil {
				return nil, fmt.Errorf("failed to fetch song after duplicate insert: %w", getErr)
			}
			return winner, nil
		}
		logger.Log.Error().
			Err(err).
			Str("external_id", externalID).
			Msg("Failed to create song")
		return nil, fmt.Errorf("failed to resolve song: %w", err)
	}

	logger.Log.Info().
		Str("song_id", song.ID.String()).
		Str("external_id", externalID).
		Str("title", title).
		Msg("Song created in catalog")

	return song, nil
}

// GetVenue retrieves a venue by its ID
func (s *CatalogService) GetVenue(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	venue, err := s.repos.Venues.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrVenueNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("venue_id", id.String()).
			Msg("Failed to get venue by ID")
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	return venue, nil
}

// ListActiveVenues retrieves all active venues
func (s *CatalogService) ListActiveVenues(ctx context.Context) ([]*models.Venue, error) {
	venues, err := s.repos.Venues.ListActive(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list active venues")
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}

	logger.Log.Debug().
		Int("count", len(venues)).
		Msg("Listed active venues")

	return venues, nil
}

// CreateVenue creates a venue, idempotently by name: when a venue with that
// name already exists it is returned with created=false. Used by seeding
// and admin tooling.
func (s *CatalogService) CreateVenue(ctx context.Context, name, description string) (*models.Venue, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, fmt.Errorf("name is required: %w", ErrInvalidVenue)
	}

	if existing, err := s.repos.Venues.GetByName(ctx, name); err == nil {
		return existing, false, nil
	} else if !db.IsNotFound(err) {
		return nil, false, fmt.Errorf("failed to look up venue: %w", err)
	}

	venue := models.NewVenue(name, description)
	if err := s.repos.Venues.Create(ctx, venue); err != nil {
		logger.Log.Error().
			Err(err).
			Str("name", name).
			Msg("Failed to create venue")
		return nil, false, fmt.Errorf("failed to create venue: %w", err)
	}

	logger.Log.Info().
		Str("venue_id", venue.ID.String()).
		Str("name", venue.Name).
		Msg("Venue created")

	return venue, true, nil
}
