package registry

import (
	"sync"

	"notifyd/pkg/types"
)

// Published pairs an event with the observer snapshot it was published to.
type Published struct {
	Event     types.ChangeEvent
	Observers []types.Observer
}

// MemoryPublisher stores events in-memory for tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Published
}

func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

func (p *MemoryPublisher) Publish(e types.ChangeEvent, obs []types.Observer) {
	p.mu.Lock()
	p.events = append(p.events, Published{Event: e, Observers: obs})
	p.mu.Unlock()
}

func (p *MemoryPublisher) Events() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Published, len(p.events))
	copy(out, p.events)
	return out
}
