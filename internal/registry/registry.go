package registry

import (
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/rs/zerolog"

	"notifyd/pkg/types"
)

// Registry owns records and observers. All fields below mu are guarded by it.
type Registry struct {
	mu        sync.RWMutex
	records   []types.Record
	observers []types.Observer
	nextID    int64
	eventsBy  map[types.EventKind]uint64

	pub       Publisher
	clock     clock.Clock
	log       zerolog.Logger
	startTime time.Time
}

// ListRecords returns a copy of all records in insertion order.
func (r *Registry) ListRecords() []types.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Record, len(r.records))
	copy(out, r.records)
	return out
}

// ListObservers returns a copy of all observers in subscription order.
func (r *Registry) ListObservers() []types.Observer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.observersLocked()
}

// GetRecord returns the record with the given id.
func (r *Registry) GetRecord(id int64) (types.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOfRecord(id)
	if i < 0 {
		return types.Record{}, ErrRecordNotFound(id)
	}
	return r.records[i], nil
}

// observersLocked copies the observer list. Caller must hold mu.
func (r *Registry) observersLocked() []types.Observer {
	out := make([]types.Observer, len(r.observers))
	copy(out, r.observers)
	return out
}

// Helper: first record in insertion order with the given id, or -1.
func (r *Registry) indexOfRecord(id int64) int {
	for i := range r.records {
		if r.records[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) indexOfObserver(id string) int {
	for i := range r.observers {
		if r.observers[i].ID == id {
			return i
		}
	}
	return -1
}
