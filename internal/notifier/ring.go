package notifier

import (
	"sync"

	"notifyd/pkg/types"
)

// ring keeps the last cap(buf) delivery results.
type ring struct {
	mu   sync.Mutex
	buf  []types.DeliveryResult
	next int
	full bool
}

func newRing(size int) *ring { return &ring{buf: make([]types.DeliveryResult, size)} }

func (r *ring) add(rs ...types.DeliveryResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range rs {
		r.buf[r.next] = res
		r.next++
		if r.next == len(r.buf) {
			r.next = 0
			r.full = true
		}
	}
}

// snapshot returns the kept results, oldest first.
func (r *ring) snapshot() []types.DeliveryResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([]types.DeliveryResult, r.next)
		copy(out, r.buf[:r.next])
		return out
	}
	out := make([]types.DeliveryResult, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}
