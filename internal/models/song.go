package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Song represents a track in the catalog, keyed by the identifier the
// external search provider assigned to it. Created once per unique
// external ID and immutable thereafter.
type Song struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	ExternalID  string    `json:"external_id" gorm:"type:text;not null;uniqueIndex;column:external_id" validate:"required"`
	Title       string    `json:"title" gorm:"type:text;not null;column:title" validate:"required,min=1,max=200"`
	Artist      string    `json:"artist" gorm:"type:text;not null;column:artist"`
	Duration    int       `json:"duration" gorm:"type:integer;not null;column:duration" validate:"required,gt=0"` // seconds
	AlbumArtURL *string   `json:"album_art_url,omitempty" gorm:"type:text;column:album_art_url"`
	CreatedAt   time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewSong creates a new Song with generated UUID and timestamp
func NewSong(externalID, title, artist string, duration int) *Song {
	return &Song{
		ID:         uuid.New(),
		ExternalID: externalID,
		Title:      title,
		Artist:     artist,
		Duration:   duration,
		CreatedAt:  time.Now().UTC(),
	}
}

// DurationString returns duration in MM:SS format
func (s *Song) DurationString() string {
	minutes := s.Duration / 60
	seconds := s.Duration % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
