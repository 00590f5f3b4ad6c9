// Package notifier fans change events out to observers over HTTP.
//
// Every observer in the snapshot gets its own goroutine and exactly one POST.
// Published events are fanned out one at a time in publish order, so a single
// observer sees successive events in the order they were produced.
// A failing observer never affects its siblings or the mutation that produced
// the event: transport errors are logged, counted and reported in the
// returned DeliveryResult, and never retried. Any HTTP status counts as
// delivered.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"notifyd/pkg/types"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultTimeout   = 5 * time.Second
	defaultRecent    = 100
	defaultUserAgent = "notifyd-notifier"
	// listener bodies are drained up to this size so connections can be reused
	maxDrainBytes = 64 << 10
)

// Config encapsulates all tunables for Notifier construction.
type Config struct {
	// HTTPClient used for webhook POSTs. Defaults to a fresh http.Client.
	HTTPClient *http.Client
	// Timeout bounds each delivery attempt.
	Timeout time.Duration
	// MaxConcurrency caps in-flight deliveries per fan-out (0 = unbounded).
	MaxConcurrency int
	// Recent is the number of delivery results kept for inspection.
	Recent    int
	UserAgent string
	Logger    *zerolog.Logger
}

// Notifier delivers change events to observers. It implements
// registry.Publisher.
type Notifier struct {
	client  *http.Client
	timeout time.Duration
	limit   int
	ua      string
	log     zerolog.Logger

	mu       sync.Mutex
	closed   bool
	queue    []pending
	draining bool
	wg       sync.WaitGroup

	recent *ring
}

// pending is one published event waiting for its fan-out.
type pending struct {
	evt       types.ChangeEvent
	observers []types.Observer
}

// New constructs a Notifier, applying defaults for unset fields.
func New(cfg Config) *Notifier {
	n := &Notifier{
		client:  cfg.HTTPClient,
		timeout: cfg.Timeout,
		limit:   cfg.MaxConcurrency,
		ua:      cfg.UserAgent,
	}
	if n.client == nil {
		n.client = &http.Client{}
	}
	if n.timeout <= 0 {
		n.timeout = defaultTimeout
	}
	if n.limit < 0 {
		n.limit = 0
	}
	if n.ua == "" {
		n.ua = defaultUserAgent
	}
	if cfg.Logger != nil {
		n.log = *cfg.Logger
	} else {
		n.log = zerolog.Nop()
	}
	size := cfg.Recent
	if size <= 0 {
		size = defaultRecent
	}
	n.recent = newRing(size)
	return n
}

// Publish queues a fan-out of evt to observers and returns immediately.
// Queued events are delivered in publish order. Events published after Close
// are dropped.
func (n *Notifier) Publish(evt types.ChangeEvent, observers []types.Observer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		n.log.Warn().Str("event", string(evt.Kind)).Msg("notifier closed; event dropped")
		return
	}
	n.wg.Add(1)
	n.queue = append(n.queue, pending{evt: evt, observers: observers})
	queuedEvents.Set(float64(len(n.queue)))
	if !n.draining {
		n.draining = true
		go n.drain()
	}
}

// drain runs queued fan-outs until the queue is empty.
func (n *Notifier) drain() {
	for {
		n.mu.Lock()
		if len(n.queue) == 0 {
			n.draining = false
			n.mu.Unlock()
			return
		}
		p := n.queue[0]
		n.queue[0] = pending{}
		n.queue = n.queue[1:]
		queuedEvents.Set(float64(len(n.queue)))
		n.mu.Unlock()

		n.Fanout(context.Background(), p.evt, p.observers)
		n.wg.Done()
	}
}

// Fanout delivers evt to every observer concurrently and returns once all
// attempts have finished. Results are in observer order.
func (n *Notifier) Fanout(ctx context.Context, evt types.ChangeEvent, observers []types.Observer) []types.DeliveryResult {
	if len(observers) == 0 {
		return nil
	}
	body, err := json.Marshal(evt)
	if err != nil {
		n.log.Error().Err(err).Str("event", string(evt.Kind)).Msg("encode event")
		return nil
	}
	fanoutsInflight.Inc()
	defer fanoutsInflight.Dec()

	results := make([]types.DeliveryResult, len(observers))
	var g errgroup.Group
	if n.limit > 0 {
		g.SetLimit(n.limit)
	}
	for i, obs := range observers {
		i, obs := i, obs
		g.Go(func() error {
			results[i] = n.deliver(ctx, evt.Kind, obs, body)
			// never fail the group: one observer must not cancel another
			return nil
		})
	}
	_ = g.Wait()
	n.recent.add(results...)
	return results
}

func (n *Notifier) deliver(ctx context.Context, kind types.EventKind, obs types.Observer, body []byte) types.DeliveryResult {
	res := types.DeliveryResult{
		DeliveryID: uuid.NewString(),
		ObserverID: obs.ID,
		Event:      kind,
	}
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	start := time.Now()

	resp, err := n.post(ctx, obs.WebhookURL, kind, res.DeliveryID, body)
	dur := time.Since(start)
	res.DurationMS = dur.Milliseconds()
	res.FinishedAt = time.Now().Unix()
	deliveryDuration.WithLabelValues(string(kind)).Observe(dur.Seconds())
	if err != nil {
		res.Error = err.Error()
		deliveriesTotal.WithLabelValues(string(kind), "failed").Inc()
		n.log.Warn().Err(err).
			Str("observer", obs.ID).
			Str("event", string(kind)).
			Str("delivery_id", res.DeliveryID).
			Dur("dur", dur).
			Msg("failed to notify observer")
		return res
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	_ = resp.Body.Close()
	res.StatusCode = resp.StatusCode
	deliveriesTotal.WithLabelValues(string(kind), "delivered").Inc()
	n.log.Info().
		Str("observer", obs.ID).
		Str("event", string(kind)).
		Str("delivery_id", res.DeliveryID).
		Int("status", resp.StatusCode).
		Dur("dur", dur).
		Msg("notified observer")
	return res
}

func (n *Notifier) post(ctx context.Context, url string, kind types.EventKind, deliveryID string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", n.ua)
	req.Header.Set(types.HeaderEvent, string(kind))
	req.Header.Set(types.HeaderDelivery, deliveryID)
	return n.client.Do(req)
}

// Recent returns the most recent delivery results, oldest first.
func (n *Notifier) Recent() []types.DeliveryResult { return n.recent.snapshot() }

// Wait blocks until every event queued by Publish has been fanned out or ctx
// is done.
func (n *Notifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting new events and waits for queued fan-outs.
func (n *Notifier) Close(ctx context.Context) error {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()
	return n.Wait(ctx)
}
