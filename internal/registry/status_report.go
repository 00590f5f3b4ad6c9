package registry

import (
	"notifyd/pkg/types"
)

// Stats builds a summary response for /status.
func (r *Registry) Stats() types.StatsResponse {
	r.mu.RLock()
	defer r.mu.RUnlock()
	now := r.clock.Now()
	resp := types.StatsResponse{
		Records:        len(r.records),
		Observers:      len(r.observers),
		NextID:         r.nextID,
		EventsTotal:    make(map[types.EventKind]uint64, len(r.eventsBy)),
		UptimeSeconds:  int64(now.Sub(r.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
	for k, v := range r.eventsBy {
		resp.EventsTotal[k] = v
	}
	return resp
}
