package e2e

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"notifyd/internal/client"
	"notifyd/internal/httpapi"
	"notifyd/internal/listener"
	"notifyd/internal/notifier"
	"notifyd/internal/registry"
	"notifyd/pkg/types"
)

type stack struct {
	reg      *registry.Registry
	notifier *notifier.Notifier
	srv      *httptest.Server
	client   *client.Client
}

// newStack runs a registry wired to a real notifier behind httptest.
func newStack(t *testing.T, ncfg notifier.Config) *stack {
	t.Helper()
	n := notifier.New(ncfg)
	reg := registry.New(registry.Config{Publisher: n})
	srv := httptest.NewServer(httpapi.NewMux(reg, n))
	t.Cleanup(srv.Close)
	c, err := client.New(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return &stack{reg: reg, notifier: n, srv: srv, client: c}
}

// collector records every event a listener dispatches.
type collector struct {
	mu     sync.Mutex
	events []types.ChangeEvent
}

func (c *collector) add(evt types.ChangeEvent) {
	c.mu.Lock()
	c.events = append(c.events, evt)
	c.mu.Unlock()
}

func (c *collector) snapshot() []types.ChangeEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.ChangeEvent(nil), c.events...)
}

// newCollectingListener runs a listener behind httptest and registers c for
// every kind. It returns the listener's webhook URL.
func newCollectingListener(t *testing.T, id string, c *collector) string {
	t.Helper()
	l := listener.New(listener.Config{ID: id})
	t.Cleanup(l.Close)
	for _, k := range []types.EventKind{types.EventAdded, types.EventUpdated, types.EventDeleted} {
		l.On(k, c.add)
	}
	srv := httptest.NewServer(l.Handler())
	t.Cleanup(srv.Close)
	return srv.URL + l.WebhookPath()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
