package registry

import "notifyd/pkg/types"

// Publisher receives change events from the registry together with the
// observers subscribed at the moment the mutation was applied.
// Implementations must be non-blocking and must not call back into the
// Registry synchronously; Publish must not panic.
type Publisher interface {
	Publish(evt types.ChangeEvent, observers []types.Observer)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(types.ChangeEvent, []types.Observer) {}
