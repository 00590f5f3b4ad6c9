package registry

import (
	"github.com/juju/clock"
	"github.com/rs/zerolog"

	"notifyd/pkg/types"
)

// Config encapsulates all tunables for Registry construction.
type Config struct {
	// Publisher receives one event per successful mutation. Defaults to a
	// publisher that drops events.
	Publisher Publisher
	// Clock stamps change events. Defaults to the wall clock.
	Clock clock.Clock
	// Logger for subscription and mutation messages. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// New constructs a Registry from Config, applying defaults for unset fields.
func New(cfg Config) *Registry {
	r := &Registry{
		nextID:    1,
		pub:       cfg.Publisher,
		clock:     cfg.Clock,
		eventsBy:  make(map[types.EventKind]uint64),
		observers: make([]types.Observer, 0),
	}
	if r.pub == nil {
		r.pub = noopPublisher{}
	}
	if r.clock == nil {
		r.clock = clock.WallClock
	}
	if cfg.Logger != nil {
		r.log = *cfg.Logger
	} else {
		r.log = zerolog.Nop()
	}
	r.startTime = r.clock.Now()
	return r
}
