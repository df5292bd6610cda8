package models

import (
	"time"

	"github.com/google/uuid"
)

// Venue represents a physical location with its own independent queue
// and now-playing state. Immutable after creation except the active flag.
type Venue struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name        string    `json:"name" gorm:"type:text;not null;column:name" validate:"required,min=1,max=100"`
	Description string    `json:"description" gorm:"type:text;not null;column:description"`
	IsActive    bool      `json:"is_active" gorm:"type:integer;not null;default:1;column:is_active"`
	CreatedAt   time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewVenue creates a new active Venue with generated UUID and timestamp
func NewVenue(name, description string) *Venue {
	return &Venue{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
}
