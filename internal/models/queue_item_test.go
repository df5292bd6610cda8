package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueueItem(t *testing.T) {
	venueID := uuid.New()
	songID := uuid.New()
	requester := "alice"

	item := NewQueueItem(venueID, songID, &requester, true, 100)

	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, venueID, item.VenueID)
	assert.Equal(t, songID, item.SongID)
	assert.Equal(t, &requester, item.RequestedBy)
	assert.True(t, item.IsPaid)
	assert.Equal(t, int64(100), item.AmountPaidCents)
	assert.Equal(t, StatusQueued, item.Status)
	assert.False(t, item.QueuedAt.IsZero())
	assert.Nil(t, item.PlayedAt)
}

func TestQueueItemLifecycle(t *testing.T) {
	item := NewQueueItem(uuid.New(), uuid.New(), nil, false, 0)
	startedAt := time.Now().UTC()

	require.NoError(t, item.MarkPlaying(startedAt))
	assert.Equal(t, StatusPlaying, item.Status)
	require.NotNil(t, item.PlayedAt)
	assert.True(t, item.PlayedAt.Equal(startedAt))

	require.NoError(t, item.MarkPlayed())
	assert.Equal(t, StatusPlayed, item.Status)
	assert.True(t, item.IsTerminal())
}

func TestQueueItemSkip(t *testing.T) {
	item := NewQueueItem(uuid.New(), uuid.New(), nil, false, 0)

	require.NoError(t, item.MarkSkipped())
	assert.Equal(t, StatusSkipped, item.Status)
	assert.True(t, item.IsTerminal())
}

func TestQueueItemIllegalTransitions(t *testing.T) {
	t.Run("played item cannot play again", func(t *testing.T) {
		item := NewQueueItem(uuid.New(), uuid.New(), nil, false, 0)
		require.NoError(t, item.MarkPlaying(time.Now()))
		require.NoError(t, item.MarkPlayed())

		err := item.MarkPlaying(time.Now())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIllegalTransition)
		assert.Equal(t, StatusPlayed, item.Status)
	})

	t.Run("queued item cannot be marked played", func(t *testing.T) {
		item := NewQueueItem(uuid.New(), uuid.New(), nil, false, 0)

		err := item.MarkPlayed()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIllegalTransition)
		assert.Equal(t, StatusQueued, item.Status)
	})

	t.Run("playing item cannot be skipped", func(t *testing.T) {
		item := NewQueueItem(uuid.New(), uuid.New(), nil, false, 0)
		require.NoError(t, item.MarkPlaying(time.Now()))

		err := item.MarkSkipped()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIllegalTransition)
		assert.Equal(t, StatusPlaying, item.Status)
	})

	t.Run("skipped item is frozen", func(t *testing.T) {
		item := NewQueueItem(uuid.New(), uuid.New(), nil, false, 0)
		require.NoError(t, item.MarkSkipped())

		assert.ErrorIs(t, item.MarkPlaying(time.Now()), ErrIllegalTransition)
		assert.ErrorIs(t, item.MarkPlayed(), ErrIllegalTransition)
		assert.Equal(t, StatusSkipped, item.Status)
	})
}

func TestNowPlayingCursor(t *testing.T) {
	venueID := uuid.New()
	cursor := NewNowPlaying(venueID)

	assert.True(t, cursor.IsEmpty())
	assert.Equal(t, venueID, cursor.VenueID)

	itemID := uuid.New()
	at := time.Now().UTC()
	cursor.SetCurrent(itemID, at)

	assert.False(t, cursor.IsEmpty())
	require.NotNil(t, cursor.QueueItemID)
	assert.Equal(t, itemID, *cursor.QueueItemID)
	assert.True(t, cursor.StartedAt.Equal(at))

	cursor.Clear(at.Add(time.Minute))
	assert.True(t, cursor.IsEmpty())
	assert.Nil(t, cursor.QueueItemID)
}
