package e2e

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"notifyd/internal/notifier"
	"notifyd/pkg/types"
)

func TestE2E_MutationsReachEveryObserver(t *testing.T) {
	st := newStack(t, notifier.Config{Timeout: time.Second})
	ctx := context.Background()
	var a, b collector
	if _, err := st.client.Subscribe(ctx, "a", newCollectingListener(t, "a", &a)); err != nil {
		t.Fatalf("subscribe a: %v", err)
	}
	if _, err := st.client.Subscribe(ctx, "b", newCollectingListener(t, "b", &b)); err != nil {
		t.Fatalf("subscribe b: %v", err)
	}

	// handlers for different kinds run independently, so step one event at a time
	both := func(n int) func() bool {
		return func() bool { return len(a.snapshot()) == n && len(b.snapshot()) == n }
	}
	if _, err := st.client.AddRecord(ctx, "n", "v"); err != nil {
		t.Fatalf("add: %v", err)
	}
	waitFor(t, "added", both(1))
	if _, err := st.client.UpdateRecord(ctx, 1, "n2", "v2"); err != nil {
		t.Fatalf("update: %v", err)
	}
	waitFor(t, "updated", both(2))
	if err := st.client.DeleteRecord(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	waitFor(t, "deleted", both(3))

	for name, c := range map[string]*collector{"a": &a, "b": &b} {
		evts := c.snapshot()
		if evts[0].Kind != types.EventAdded || *evts[0].Record != (types.Record{ID: 1, Name: "n", Value: "v"}) {
			t.Fatalf("%s: unexpected added event %+v", name, evts[0])
		}
		if evts[1].Kind != types.EventUpdated || evts[1].Record.Name != "n2" {
			t.Fatalf("%s: unexpected updated event %+v", name, evts[1])
		}
		if evts[2].Kind != types.EventDeleted || evts[2].DeletedID != 1 {
			t.Fatalf("%s: unexpected deleted event %+v", name, evts[2])
		}
	}
}

func TestE2E_FailingObserverDoesNotAffectOthers(t *testing.T) {
	st := newStack(t, notifier.Config{Timeout: 200 * time.Millisecond})
	ctx := context.Background()

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL + "/webhook"
	dead.Close()
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	var ok collector
	_, _ = st.client.Subscribe(ctx, "dead", deadURL)
	_, _ = st.client.Subscribe(ctx, "slow", slow.URL)
	_, _ = st.client.Subscribe(ctx, "ok", newCollectingListener(t, "ok", &ok))

	rec, err := st.client.AddRecord(ctx, "n", "v")
	if err != nil || rec.ID != 1 {
		t.Fatalf("mutation must succeed regardless of observers: %+v %v", rec, err)
	}

	waitFor(t, "healthy observer", func() bool { return len(ok.snapshot()) == 1 })
	if err := st.notifier.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	ds, err := st.client.Deliveries(ctx)
	if err != nil {
		t.Fatalf("deliveries: %v", err)
	}
	outcome := map[string]bool{}
	for _, d := range ds {
		outcome[d.ObserverID] = d.Delivered()
	}
	if len(outcome) != 3 || outcome["dead"] || outcome["slow"] || !outcome["ok"] {
		t.Fatalf("unexpected outcomes: %+v", ds)
	}
}

func TestE2E_UnsubscribedObserverGetsNothing(t *testing.T) {
	st := newStack(t, notifier.Config{})
	ctx := context.Background()
	var a collector
	_, _ = st.client.Subscribe(ctx, "a", newCollectingListener(t, "a", &a))
	if err := st.client.Unsubscribe(ctx, "a"); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if _, err := st.client.AddRecord(ctx, "n", "v"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := st.notifier.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if n := len(a.snapshot()); n != 0 {
		t.Fatalf("unsubscribed observer got %d events", n)
	}
	if n := len(st.notifier.Recent()); n != 0 {
		t.Fatalf("expected no deliveries, got %d", n)
	}
}

func TestE2E_SequentialMutationsArriveInOrder(t *testing.T) {
	st := newStack(t, notifier.Config{Timeout: 2 * time.Second})
	ctx := context.Background()
	var mu sync.Mutex
	var kinds []string
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kind := r.Header.Get(types.HeaderEvent)
		if kind == string(types.EventAdded) {
			time.Sleep(200 * time.Millisecond)
		}
		mu.Lock()
		kinds = append(kinds, kind)
		mu.Unlock()
	}))
	defer hook.Close()
	if _, err := st.client.Subscribe(ctx, "mirror", hook.URL); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if _, err := st.client.AddRecord(ctx, "n", "v"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := st.client.UpdateRecord(ctx, 1, "n2", "v2"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := st.client.DeleteRecord(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := st.notifier.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"DATA_ADDED", "DATA_UPDATED", "DATA_DELETED"}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("events out of order: got %v want %v", kinds, want)
		}
	}
}
