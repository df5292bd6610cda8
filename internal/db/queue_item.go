package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rdelgatto/jukebox/internal/models"
)

// QueuedOrderClause is the queue ordering policy: paid requests before free
// ones, then earliest-enqueued-first within each tier. rowid breaks
// identical-timestamp ties by insertion order, so the order is a strict
// total order and no item is ever skipped or duplicated.
const QueuedOrderClause = "is_paid DESC, queued_at ASC, rowid ASC"

// QueueItemRepository handles database operations for queue items
type QueueItemRepository struct {
	db *DB
}

// NewQueueItemRepository creates a new queue item repository
func NewQueueItemRepository(db *DB) *QueueItemRepository {
	return &QueueItemRepository{db: db}
}

// Create inserts a new queue item into the database
func (r *QueueItemRepository) Create(ctx context.Context, item *models.QueueItem) error {
	result := r.db.WithContext(ctx).Create(item)
	if result.Error != nil {
		return fmt.Errorf("failed to create queue item: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a queue item by its UUID with its song preloaded
func (r *QueueItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.QueueItem, error) {
	var item models.QueueItem
	result := r.db.WithContext(ctx).
		Preload("Song").
		Where("id = ?", id.String()).
		First(&item)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &item, nil
}

// ListQueued retrieves up to limit queued items for a venue in playback
// order, with songs preloaded. Each call is a fresh snapshot.
func (r *QueueItemRepository) ListQueued(ctx context.Context, venueID uuid.UUID, limit int) ([]*models.QueueItem, error) {
	var items []*models.QueueItem
	query := r.db.WithContext(ctx).
		Preload("Song").
		Where("venue_id = ? AND status = ?", venueID.String(), models.StatusQueued).
		Order(QueuedOrderClause)
	if limit > 0 {
		query = query.Limit(limit)
	}
	result := query.Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list queued items: %w", MapGormError(result.Error))
	}
	return items, nil
}

// CountByStatus counts a venue's queue items in the given status
func (r *QueueItemRepository) CountByStatus(ctx context.Context, venueID uuid.UUID, status models.QueueStatus) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.QueueItem{}).
		Where("venue_id = ? AND status = ?", venueID.String(), status).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count queue items: %w", MapGormError(result.Error))
	}
	return count, nil
}
