package listener

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/juju/pubsub/v2"
	"github.com/rs/zerolog"

	"notifyd/internal/client"
	"notifyd/pkg/types"
)

// Defaults applied when corresponding Config fields are unset.
const (
	DefaultWebhookPath  = "/webhook"
	defaultRecent       = 100
	defaultMaxBodyBytes = 1 << 20
)

// Config encapsulates all tunables for Listener construction.
type Config struct {
	// ID identifies this listener to the registry. Defaults to
	// "listener-" plus a short random suffix.
	ID string
	// WebhookPath is where events are accepted. Defaults to /webhook.
	WebhookPath string
	// PublicURL is the webhook address advertised when subscribing.
	PublicURL string
	// Registry enables Subscribe, Unsubscribe and their HTTP proxies.
	Registry *client.Client
	// Recent is the number of received events kept for GET /events.
	Recent       int
	MaxBodyBytes int64
	Logger       *zerolog.Logger
}

// Listener receives change events and dispatches them by kind.
type Listener struct {
	id        string
	path      string
	publicURL string
	registry  *client.Client
	maxBody   int64
	log       zerolog.Logger
	hub       *pubsub.SimpleHub

	mu     sync.Mutex
	unsubs []func()
	recent []types.ChangeEvent
	keep   int
}

// New constructs a Listener and installs the default per-kind log handlers.
func New(cfg Config) *Listener {
	l := &Listener{
		id:        cfg.ID,
		path:      cfg.WebhookPath,
		publicURL: cfg.PublicURL,
		registry:  cfg.Registry,
		maxBody:   cfg.MaxBodyBytes,
		keep:      cfg.Recent,
	}
	if l.id == "" {
		l.id = "listener-" + uuid.NewString()[:8]
	}
	if l.path == "" {
		l.path = DefaultWebhookPath
	}
	if l.maxBody <= 0 {
		l.maxBody = defaultMaxBodyBytes
	}
	if l.keep <= 0 {
		l.keep = defaultRecent
	}
	if cfg.Logger != nil {
		l.log = cfg.Logger.With().Str("listener", l.id).Logger()
	} else {
		l.log = zerolog.Nop()
	}
	l.hub = pubsub.NewSimpleHub(&pubsub.SimpleHubConfig{
		Logger: hubLogger{log: l.log},
	})

	l.On(types.EventAdded, func(evt types.ChangeEvent) {
		l.log.Info().Int64("id", evt.Record.ID).Str("name", evt.Record.Name).Msg("record added")
	})
	l.On(types.EventUpdated, func(evt types.ChangeEvent) {
		l.log.Info().Int64("id", evt.Record.ID).Str("name", evt.Record.Name).Msg("record updated")
	})
	l.On(types.EventDeleted, func(evt types.ChangeEvent) {
		l.log.Info().Int64("id", evt.DeletedID).Msg("record deleted")
	})
	return l
}

// ID returns the listener identifier used with the registry.
func (l *Listener) ID() string { return l.id }

// WebhookPath returns the path events are accepted on.
func (l *Listener) WebhookPath() string { return l.path }

// On registers fn for events of the given kind and returns a func that
// removes it. Handlers for one kind see events in arrival order.
func (l *Listener) On(kind types.EventKind, fn func(types.ChangeEvent)) func() {
	unsub := l.hub.Subscribe(string(kind), func(_ string, data interface{}) {
		if evt, ok := data.(types.ChangeEvent); ok {
			fn(evt)
		}
	})
	l.mu.Lock()
	l.unsubs = append(l.unsubs, unsub)
	l.mu.Unlock()
	return unsub
}

// Deliver records evt and hands it to the handlers for its kind. It does not
// wait for them.
func (l *Listener) Deliver(evt types.ChangeEvent) {
	l.mu.Lock()
	l.recent = append(l.recent, evt)
	if over := len(l.recent) - l.keep; over > 0 {
		l.recent = append(l.recent[:0:0], l.recent[over:]...)
	}
	l.mu.Unlock()
	eventsReceived.WithLabelValues(string(evt.Kind)).Inc()
	l.log.Debug().Str("event", string(evt.Kind)).Time("timestamp", evt.OccurredAt).Msg("received notification")
	l.hub.Publish(string(evt.Kind), evt)
}

// Recent returns the received events, oldest first.
func (l *Listener) Recent() []types.ChangeEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]types.ChangeEvent, len(l.recent))
	copy(out, l.recent)
	return out
}

// Subscribe registers this listener's PublicURL with the registry.
func (l *Listener) Subscribe(ctx context.Context) (types.SubscribeResponse, error) {
	if l.registry == nil {
		return types.SubscribeResponse{}, errors.NotSupportedf("subscribe without a registry url")
	}
	if l.publicURL == "" {
		return types.SubscribeResponse{}, errors.NotValidf("empty public url")
	}
	resp, err := l.registry.Subscribe(ctx, l.id, l.publicURL)
	if err != nil {
		return resp, errors.Trace(err)
	}
	l.log.Info().Str("webhook_url", l.publicURL).Msg("subscribed to registry")
	return resp, nil
}

// Unsubscribe removes this listener from the registry.
func (l *Listener) Unsubscribe(ctx context.Context) (types.UnsubscribeResponse, error) {
	if l.registry == nil {
		return types.UnsubscribeResponse{}, errors.NotSupportedf("unsubscribe without a registry url")
	}
	if err := l.registry.Unsubscribe(ctx, l.id); err != nil {
		return types.UnsubscribeResponse{}, errors.Trace(err)
	}
	l.log.Info().Msg("unsubscribed from registry")
	return types.UnsubscribeResponse{Message: "Unsubscribed successfully", ID: l.id}, nil
}

// Close detaches every handler registered with On.
func (l *Listener) Close() {
	l.mu.Lock()
	unsubs := l.unsubs
	l.unsubs = nil
	l.mu.Unlock()
	for _, u := range unsubs {
		u()
	}
}
