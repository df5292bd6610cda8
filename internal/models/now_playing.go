package models

import (
	"time"

	"github.com/google/uuid"
)

// NowPlaying is the per-venue playback cursor. At most one row exists per
// venue, created lazily on the first advancement. QueueItemID is nil when
// the queue was exhausted at the last advance.
type NowPlaying struct {
	ID          uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	VenueID     uuid.UUID  `json:"venue_id" gorm:"type:text;not null;uniqueIndex;column:venue_id" validate:"required"`
	QueueItemID *uuid.UUID `json:"queue_item_id,omitempty" gorm:"type:text;column:queue_item_id"`
	StartedAt   time.Time  `json:"started_at" gorm:"type:datetime;not null;column:started_at"`

	// Populated by preload, not stored on this row
	QueueItem *QueueItem `json:"queue_item,omitempty" gorm:"foreignKey:QueueItemID;references:ID"`
}

// TableName keeps the singular table name; there is one cursor per venue,
// not a collection
func (NowPlaying) TableName() string {
	return "now_playing"
}

// NewNowPlaying creates an empty cursor for a venue
func NewNowPlaying(venueID uuid.UUID) *NowPlaying {
	return &NowPlaying{
		ID:        uuid.New(),
		VenueID:   venueID,
		StartedAt: time.Now().UTC(),
	}
}

// SetCurrent points the cursor at a queue item and stamps the advance time
func (n *NowPlaying) SetCurrent(itemID uuid.UUID, at time.Time) {
	id := itemID
	n.QueueItemID = &id
	n.StartedAt = at.UTC()
}

// Clear empties the cursor, recording that the queue was exhausted
func (n *NowPlaying) Clear(at time.Time) {
	n.QueueItemID = nil
	n.StartedAt = at.UTC()
}

// IsEmpty reports whether nothing is currently playing at the venue
func (n *NowPlaying) IsEmpty() bool {
	return n.QueueItemID == nil
}
