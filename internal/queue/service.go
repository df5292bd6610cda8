// Package queue implements the per-venue request queue and playback
// advancement engine. Queued requests are ordered paid-first, then
// earliest-enqueued-first; advancement retires whatever is playing and
// promotes the head of the queue in a single serialized step.
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rdelgatto/jukebox/internal/db"
	"github.com/rdelgatto/jukebox/internal/logger"
	"github.com/rdelgatto/jukebox/internal/models"
	"github.com/rdelgatto/jukebox/internal/payments"
)

// DefaultQueueDepth is how many upcoming items queue snapshots include
const DefaultQueueDepth = 10

// QueueService handles business logic for queue and playback operations
type QueueService struct {
	db       *db.DB
	repos    *db.Repositories
	gateway  payments.Gateway
	feeCents int64
	locks    *venueLocks
}

// NewQueueService creates a new queue service instance. feeCents is the
// fixed fee charged for every paid request; client-supplied amounts are
// never trusted.
func NewQueueService(database *db.DB, repos *db.Repositories, gateway payments.Gateway, feeCents int64) *QueueService {
	return &QueueService{
		db:       database,
		repos:    repos,
		gateway:  gateway,
		feeCents: feeCents,
		locks:    newVenueLocks(),
	}
}

// Enqueue adds a song request to a venue's queue. Paid requests are
// authorized against the payment gateway for the fixed fee before anything
// persists; a declined or failed authorization leaves no state behind.
func (s *QueueService) Enqueue(ctx context.Context, venueID uuid.UUID, song *models.Song, requestedBy *string, isPaid bool, paymentMethodID string) (*models.QueueItem, error) {
	if _, err := s.repos.Venues.GetByID(ctx, venueID); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to enqueue: %w", err)
	}

	var amountCents int64
	if isPaid {
		if paymentMethodID == "" {
			logger.Log.Warn().
				Str("venue_id", venueID.String()).
				Str("song_id", song.ID.String()).
				Msg("Paid request rejected: no payment method")
			return nil, ErrMissingPaymentMethod
		}

		// Authorization happens outside the venue lock so a slow processor
		// never stalls advancement.
		if err := s.gateway.Authorize(ctx, paymentMethodID, s.feeCents); err != nil {
			logger.Log.Warn().
				Err(err).
				Str("venue_id", venueID.String()).
				Str("song_id", song.ID.String()).
				Msg("Paid request rejected: authorization failed")
			if errors.Is(err, payments.ErrDeclined) {
				return nil, ErrPaymentDeclined
			}
			return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
		amountCents = s.feeCents
	}

	item := models.NewQueueItem(venueID, song.ID, requestedBy, isPaid, amountCents)

	lock := s.locks.get(venueID)
	lock.Lock()
	defer lock.Unlock()

	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to create queue item: %w", db.MapGormError(err))
		}
		return nil
	})
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("venue_id", venueID.String()).
			Str("song_id", song.ID.String()).
			Msg("Failed to enqueue request")
		return nil, fmt.Errorf("failed to enqueue: %w", err)
	}

	item.Song = song

	logger.Log.Info().
		Str("queue_item_id", item.ID.String()).
		Str("venue_id", venueID.String()).
		Str("song_id", song.ID.String()).
		Bool("is_paid", isPaid).
		Int64("amount_paid_cents", amountCents).
		Msg("Request enqueued")

	return item, nil
}

// PeekQueue returns up to limit queued items for a venue in playback order.
// Pure read; each call is a fresh snapshot of committed state.
func (s *QueueService) PeekQueue(ctx context.Context, venueID uuid.UUID, limit int) ([]*models.QueueItem, error) {
	if _, err := s.repos.Venues.GetByID(ctx, venueID); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to peek queue: %w", err)
	}

	items, err := s.repos.QueueItems.ListQueued(ctx, venueID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to peek queue: %w", err)
	}
	return items, nil
}

// GetNowPlaying returns the venue's currently playing item, or nil when
// nothing is playing (no advancement has happened yet, or the queue was
// exhausted at the last one).
func (s *QueueService) GetNowPlaying(ctx context.Context, venueID uuid.UUID) (*models.QueueItem, error) {
	cursor, err := s.repos.NowPlaying.GetByVenue(ctx, venueID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get now playing: %w", err)
	}
	if cursor.IsEmpty() {
		return nil, nil
	}
	return cursor.QueueItem, nil
}

// Advance retires the currently playing item and promotes the head of the
// queue. Returns the newly playing item, or nil when the queue is empty.
// The retire-select-install sequence runs under the venue lock in one
// transaction, so no interleaving can produce two playing items or skip a
// committed request. Advance is not idempotent: each call moves the queue
// forward, and the previously playing item is retired even when nothing
// replaces it.
func (s *QueueService) Advance(ctx context.Context, venueID uuid.UUID) (*models.QueueItem, error) {
	if _, err := s.repos.Venues.GetByID(ctx, venueID); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to advance: %w", err)
	}

	lock := s.locks.get(venueID)
	lock.Lock()
	defer lock.Unlock()

	var nextID *uuid.UUID

	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		now := time.Now().UTC()

		// Locate or lazily create the venue's cursor
		var cursor models.NowPlaying
		err := tx.Where("venue_id = ?", venueID.String()).First(&cursor).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to load cursor: %w", db.MapGormError(err))
			}
			cursor = *models.NewNowPlaying(venueID)
			if err := tx.Create(&cursor).Error; err != nil {
				return fmt.Errorf("failed to create cursor: %w", db.MapGormError(err))
			}
		}

		// Retire whatever is playing, unconditionally
		if cursor.QueueItemID != nil {
			var current models.QueueItem
			if err := tx.Where("id = ?", cursor.QueueItemID.String()).First(&current).Error; err != nil {
				return fmt.Errorf("failed to load playing item: %w", db.MapGormError(err))
			}
			if err := current.MarkPlayed(); err != nil {
				return fmt.Errorf("failed to retire playing item: %w", err)
			}
			if err := tx.Model(&models.QueueItem{}).
				Where("id = ?", current.ID.String()).
				Update("status", current.Status).Error; err != nil {
				return fmt.Errorf("failed to persist retired item: %w", db.MapGormError(err))
			}
		}

		// Select the head of the queued set under the ordering policy
		var head models.QueueItem
		err = tx.Where("venue_id = ? AND status = ?", venueID.String(), models.StatusQueued).
			Order(db.QueuedOrderClause).
			First(&head).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to select queue head: %w", db.MapGormError(err))
			}
			// Queue exhausted: clear the cursor
			cursor.Clear(now)
			if err := tx.Model(&models.NowPlaying{}).
				Where("id = ?", cursor.ID.String()).
				Updates(map[string]interface{}{
					"queue_item_id": nil,
					"started_at":    cursor.StartedAt,
				}).Error; err != nil {
				return fmt.Errorf("failed to clear cursor: %w", db.MapGormError(err))
			}
			return nil
		}

		if err := head.MarkPlaying(now); err != nil {
			return fmt.Errorf("failed to promote queue head: %w", err)
		}
		if err := tx.Model(&models.QueueItem{}).
			Where("id = ?", head.ID.String()).
			Updates(map[string]interface{}{
				"status":    head.Status,
				"played_at": head.PlayedAt,
			}).Error; err != nil {
			return fmt.Errorf("failed to persist playing item: %w", db.MapGormError(err))
		}

		cursor.SetCurrent(head.ID, now)
		if err := tx.Model(&models.NowPlaying{}).
			Where("id = ?", cursor.ID.String()).
			Updates(map[string]interface{}{
				"queue_item_id": head.ID.String(),
				"started_at":    cursor.StartedAt,
			}).Error; err != nil {
			return fmt.Errorf("failed to install cursor: %w", db.MapGormError(err))
		}

		nextID = &head.ID
		return nil
	})
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("venue_id", venueID.String()).
			Msg("Failed to advance queue")
		return nil, fmt.Errorf("failed to advance: %w", err)
	}

	if nextID == nil {
		logger.Log.Info().
			Str("venue_id", venueID.String()).
			Msg("Advanced queue: nothing left to play")
		return nil, nil
	}

	next, err := s.repos.QueueItems.GetByID(ctx, *nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to load advanced item: %w", err)
	}

	logger.Log.Info().
		Str("venue_id", venueID.String()).
		Str("queue_item_id", next.ID.String()).
		Str("song_id", next.SongID.String()).
		Msg("Advanced queue to next request")

	return next, nil
}

// Skip marks a still-queued item skipped so no advancement ever selects
// it. Skipped items are immutable history.
func (s *QueueService) Skip(ctx context.Context, venueID, itemID uuid.UUID) (*models.QueueItem, error) {
	if _, err := s.repos.Venues.GetByID(ctx, venueID); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to skip: %w", err)
	}

	lock := s.locks.get(venueID)
	lock.Lock()
	defer lock.Unlock()

	var skipped *models.QueueItem

	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var item models.QueueItem
		err := tx.Where("id = ? AND venue_id = ?", itemID.String(), venueID.String()).First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to load queue item: %w", db.MapGormError(err))
		}

		if err := item.MarkSkipped(); err != nil {
			return err
		}

		if err := tx.Model(&models.QueueItem{}).
			Where("id = ?", item.ID.String()).
			Update("status", item.Status).Error; err != nil {
			return fmt.Errorf("failed to persist skipped item: %w", db.MapGormError(err))
		}

		skipped = &item
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info().
		Str("venue_id", venueID.String()).
		Str("queue_item_id", itemID.String()).
		Msg("Queue item skipped")

	return skipped, nil
}
