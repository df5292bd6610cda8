package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QueueStatus is the closed set of states a queue item moves through.
type QueueStatus string

// Queue item statuses. An item starts queued, becomes playing when an
// advancement selects it, and ends played or skipped. Played and skipped
// are terminal.
const (
	StatusQueued  QueueStatus = "queued"
	StatusPlaying QueueStatus = "playing"
	StatusPlayed  QueueStatus = "played"
	StatusSkipped QueueStatus = "skipped"
)

// ErrIllegalTransition indicates a status transition that the queue item
// lifecycle does not permit
var ErrIllegalTransition = errors.New("illegal queue item status transition")

// QueueItem represents one song request at a venue: pending, active, or
// historically resolved.
type QueueItem struct {
	ID              uuid.UUID   `json:"id" gorm:"type:text;primaryKey;column:id"`
	VenueID         uuid.UUID   `json:"venue_id" gorm:"type:text;not null;column:venue_id" validate:"required"`
	SongID          uuid.UUID   `json:"song_id" gorm:"type:text;not null;column:song_id" validate:"required"`
	RequestedBy     *string     `json:"requested_by,omitempty" gorm:"type:text;column:requested_by"`
	IsPaid          bool        `json:"is_paid" gorm:"type:integer;not null;default:0;column:is_paid"`
	AmountPaidCents int64       `json:"amount_paid_cents" gorm:"type:integer;not null;default:0;column:amount_paid_cents"`
	Status          QueueStatus `json:"status" gorm:"type:text;not null;default:'queued';column:status"`
	QueuedAt        time.Time   `json:"queued_at" gorm:"type:datetime;not null;column:queued_at"`
	PlayedAt        *time.Time  `json:"played_at,omitempty" gorm:"type:datetime;column:played_at"`

	// Populated by preload, not stored on this row
	Song *Song `json:"song,omitempty" gorm:"foreignKey:SongID;references:ID"`
}

// NewQueueItem creates a queued item with generated UUID and enqueue timestamp
func NewQueueItem(venueID, songID uuid.UUID, requestedBy *string, isPaid bool, amountPaidCents int64) *QueueItem {
	return &QueueItem{
		ID:              uuid.New(),
		VenueID:         venueID,
		SongID:          songID,
		RequestedBy:     requestedBy,
		IsPaid:          isPaid,
		AmountPaidCents: amountPaidCents,
		Status:          StatusQueued,
		QueuedAt:        time.Now().UTC(),
	}
}

// MarkPlaying transitions queued -> playing and records when playback started
func (q *QueueItem) MarkPlaying(startedAt time.Time) error {
	if q.Status != StatusQueued {
		return fmt.Errorf("cannot mark %s item playing: %w", q.Status, ErrIllegalTransition)
	}
	q.Status = StatusPlaying
	startedAt = startedAt.UTC()
	q.PlayedAt = &startedAt
	return nil
}

// MarkPlayed transitions playing -> played
func (q *QueueItem) MarkPlayed() error {
	if q.Status != StatusPlaying {
		return fmt.Errorf("cannot mark %s item played: %w", q.Status, ErrIllegalTransition)
	}
	q.Status = StatusPlayed
	return nil
}

// MarkSkipped transitions queued -> skipped
func (q *QueueItem) MarkSkipped() error {
	if q.Status != StatusQueued {
		return fmt.Errorf("cannot mark %s item skipped: %w", q.Status, ErrIllegalTransition)
	}
	q.Status = StatusSkipped
	return nil
}

// IsTerminal reports whether the item is immutable history
func (q *QueueItem) IsTerminal() bool {
	return q.Status == StatusPlayed || q.Status == StatusSkipped
}
