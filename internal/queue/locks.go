package queue

import (
	"sync"

	"github.com/google/uuid"
)

// venueLocks hands out one mutex per venue so that mutating queue
// operations on the same venue serialize while different venues proceed
// independently. Locks are created on first use and never released; the
// set of venues is small and long-lived.
type venueLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newVenueLocks() *venueLocks {
	return &venueLocks{
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// get returns the mutex for a venue, creating it if needed
func (v *venueLocks) get(venueID uuid.UUID) *sync.Mutex {
	v.mu.Lock()
	defer v.mu.Unlock()

	lock, ok := v.locks[venueID]
	if !ok {
		lock = &sync.Mutex{}
		v.locks[venueID] = lock
	}
	return lock
}
