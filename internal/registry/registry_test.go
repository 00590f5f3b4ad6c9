package registry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"notifyd/pkg/types"
)

func newTestRegistry(t *testing.T) (*Registry, *MemoryPublisher, *testclock.Clock) {
	t.Helper()
	pub := NewMemoryPublisher()
	clk := testclock.NewClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	return New(Config{Publisher: pub, Clock: clk}), pub, clk
}

func TestNewDefaults(t *testing.T) {
	r := New(Config{})
	if r.nextID != 1 {
		t.Fatalf("expected nextID=1 got %d", r.nextID)
	}
	if _, ok := r.pub.(noopPublisher); !ok {
		t.Fatalf("expected noop publisher, got %T", r.pub)
	}
	// must not panic without a publisher
	if _, err := r.AddRecord("n", "v"); err != nil {
		t.Fatalf("add: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	r, pub, _ := newTestRegistry(t)

	rec, err := r.AddRecord("n", "v")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if rec != (types.Record{ID: 1, Name: "n", Value: "v"}) {
		t.Fatalf("unexpected record: %+v", rec)
	}
	list := r.ListRecords()
	if len(list) != 1 || list[0] != rec {
		t.Fatalf("unexpected list: %+v", list)
	}

	upd, err := r.UpdateRecord(1, "n2", "v2")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd != (types.Record{ID: 1, Name: "n2", Value: "v2"}) {
		t.Fatalf("unexpected updated record: %+v", upd)
	}

	if err := r.DeleteRecord(1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := len(r.ListRecords()); n != 0 {
		t.Fatalf("expected empty list, got %d", n)
	}

	evts := pub.Events()
	if len(evts) != 3 {
		t.Fatalf("expected 3 events, got %d", len(evts))
	}
	if evts[0].Event.Kind != types.EventAdded || evts[0].Event.Record == nil || evts[0].Event.Record.Name != "n" {
		t.Fatalf("bad added event: %+v", evts[0].Event)
	}
	if evts[1].Event.Kind != types.EventUpdated || evts[1].Event.Record == nil || evts[1].Event.Record.Value != "v2" {
		t.Fatalf("bad updated event: %+v", evts[1].Event)
	}
	if evts[2].Event.Kind != types.EventDeleted || evts[2].Event.DeletedID != 1 || evts[2].Event.Record != nil {
		t.Fatalf("bad deleted event: %+v", evts[2].Event)
	}
}

func TestIDsIncreaseAndAreNeverReused(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	a, _ := r.AddRecord("a", "1")
	b, _ := r.AddRecord("b", "2")
	if err := r.DeleteRecord(b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	c, _ := r.AddRecord("c", "3")
	if !(a.ID < b.ID && b.ID < c.ID) {
		t.Fatalf("ids not strictly increasing: %d %d %d", a.ID, b.ID, c.ID)
	}
	if c.ID == b.ID {
		t.Fatalf("id %d reused", c.ID)
	}
}

func TestUpdateDeleteUnknownIDNotFound(t *testing.T) {
	r, pub, _ := newTestRegistry(t)
	if _, err := r.UpdateRecord(999, "n", "v"); err == nil || !IsNotFound(err) {
		t.Fatalf("expected not found on update, got %v", err)
	}
	if err := r.DeleteRecord(999); err == nil || !IsNotFound(err) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
	if _, err := r.GetRecord(999); !IsNotFound(err) {
		t.Fatalf("expected not found on get, got %v", err)
	}
	if n := len(pub.Events()); n != 0 {
		t.Fatalf("expected no events, got %d", n)
	}
}

func TestValidation(t *testing.T) {
	r, pub, _ := newTestRegistry(t)
	cases := []struct {
		name string
		fn   func() error
	}{
		{"add empty name", func() error { _, err := r.AddRecord("", "v"); return err }},
		{"add blank value", func() error { _, err := r.AddRecord("n", "  "); return err }},
		{"update empty value", func() error { _, err := r.UpdateRecord(1, "n", ""); return err }},
		{"subscribe empty url", func() error { _, err := r.Subscribe("a", ""); return err }},
		{"subscribe empty id", func() error { _, err := r.Subscribe("", "http://x"); return err }},
		{"unsubscribe empty id", func() error { return r.Unsubscribe("") }},
	}
	for _, c := range cases {
		if err := c.fn(); err == nil || !IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", c.name, err)
		}
	}
	if n := len(pub.Events()); n != 0 {
		t.Fatalf("expected no events, got %d", n)
	}
	if len(r.ListRecords()) != 0 || len(r.ListObservers()) != 0 {
		t.Fatalf("state changed by invalid calls")
	}
}

func TestValidationMessage(t *testing.T) {
	if got := ErrValidation("name", "value").Error(); got != "name and value are required" {
		t.Fatalf("got %q", got)
	}
	if got := ErrValidation("id").Error(); got != "id is required" {
		t.Fatalf("got %q", got)
	}
}

func TestUpdateValidatesBeforeLookup(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	if _, err := r.UpdateRecord(42, "", ""); !IsValidation(err) {
		t.Fatalf("expected validation error before not-found, got %v", err)
	}
}

func TestSubscribeIdempotent(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	if _, err := r.Subscribe("a", "http://a/hook"); err != nil {
		t.Fatalf("subscribe a: %v", err)
	}
	if _, err := r.Subscribe("b", "http://b/hook"); err != nil {
		t.Fatalf("subscribe b: %v", err)
	}
	got, err := r.Subscribe("a", "http://other/hook")
	if err != nil {
		t.Fatalf("resubscribe: %v", err)
	}
	if got.WebhookURL != "http://a/hook" {
		t.Fatalf("resubscribe changed callback: %+v", got)
	}
	obs := r.ListObservers()
	if len(obs) != 2 || obs[0].ID != "a" || obs[1].ID != "b" || obs[0].WebhookURL != "http://a/hook" {
		t.Fatalf("unexpected observers: %+v", obs)
	}
}

func TestUnsubscribeUnknownIsNoop(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	_, _ = r.Subscribe("a", "http://a/hook")
	if err := r.Unsubscribe("zzz"); err != nil {
		t.Fatalf("unsubscribe unknown: %v", err)
	}
	if n := len(r.ListObservers()); n != 1 {
		t.Fatalf("expected 1 observer, got %d", n)
	}
	if err := r.Unsubscribe("a"); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if n := len(r.ListObservers()); n != 0 {
		t.Fatalf("expected 0 observers, got %d", n)
	}
}

func TestEventCarriesObserverSnapshot(t *testing.T) {
	r, pub, _ := newTestRegistry(t)
	_, _ = r.Subscribe("a", "http://a/hook")
	_, _ = r.AddRecord("n", "v")
	_, _ = r.Subscribe("b", "http://b/hook")
	_ = r.Unsubscribe("a")
	_, _ = r.AddRecord("n2", "v2")

	evts := pub.Events()
	if len(evts) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evts))
	}
	if len(evts[0].Observers) != 1 || evts[0].Observers[0].ID != "a" {
		t.Fatalf("first snapshot: %+v", evts[0].Observers)
	}
	if len(evts[1].Observers) != 1 || evts[1].Observers[0].ID != "b" {
		t.Fatalf("second snapshot: %+v", evts[1].Observers)
	}
}

func TestEventTimestampFromClock(t *testing.T) {
	r, pub, clk := newTestRegistry(t)
	clk.Advance(90 * time.Second)
	_, _ = r.AddRecord("n", "v")
	evts := pub.Events()
	want := time.Date(2024, 1, 1, 12, 1, 30, 0, time.UTC)
	if !evts[0].Event.OccurredAt.Equal(want) {
		t.Fatalf("expected %v, got %v", want, evts[0].Event.OccurredAt)
	}
}

func TestListRecordsReturnsCopy(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	_, _ = r.AddRecord("a", "1")
	out := r.ListRecords()
	out[0].Name = "z"
	if r.ListRecords()[0].Name != "a" {
		t.Fatalf("registry mutated via returned slice")
	}
	_, _ = r.Subscribe("o", "http://o/hook")
	obs := r.ListObservers()
	obs[0].WebhookURL = "http://evil/hook"
	if r.ListObservers()[0].WebhookURL != "http://o/hook" {
		t.Fatalf("observers mutated via returned slice")
	}
}

func TestConcurrentAddsGetUniqueIDs(t *testing.T) {
	r, pub, _ := newTestRegistry(t)
	const n = 200
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := r.AddRecord(fmt.Sprintf("n%d", i), "v")
			if err != nil {
				t.Errorf("add: %v", err)
				return
			}
			ids <- rec.ID
		}(i)
	}
	wg.Wait()
	close(ids)
	seen := make(map[int64]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d ids, got %d", n, len(seen))
	}
	for id := int64(1); id <= n; id++ {
		if !seen[id] {
			t.Fatalf("missing id %d", id)
		}
	}
	if got := len(pub.Events()); got != n {
		t.Fatalf("expected %d events, got %d", n, got)
	}
}

func TestStats(t *testing.T) {
	r, _, clk := newTestRegistry(t)
	_, _ = r.Subscribe("a", "http://a/hook")
	_, _ = r.AddRecord("a", "1")
	_, _ = r.AddRecord("b", "2")
	_ = r.DeleteRecord(1)
	clk.Advance(10 * time.Second)
	s := r.Stats()
	if s.Records != 1 || s.Observers != 1 || s.NextID != 3 {
		t.Fatalf("unexpected stats: %+v", s)
	}
	if s.EventsTotal[types.EventAdded] != 2 || s.EventsTotal[types.EventDeleted] != 1 {
		t.Fatalf("unexpected event counts: %+v", s.EventsTotal)
	}
	if s.UptimeSeconds != 10 {
		t.Fatalf("expected uptime 10, got %d", s.UptimeSeconds)
	}
}

func TestConcurrentAddsPublishInCommitOrder(t *testing.T) {
	r, pub, _ := newTestRegistry(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := r.AddRecord(fmt.Sprintf("n%d", i), "v"); err != nil {
				t.Errorf("add: %v", err)
			}
		}(i)
	}
	wg.Wait()
	evts := pub.Events()
	if len(evts) != 50 {
		t.Fatalf("expected 50 events, got %d", len(evts))
	}
	for i, p := range evts {
		if p.Event.Record == nil || p.Event.Record.ID != int64(i+1) {
			t.Fatalf("event %d published out of commit order: %+v", i, p.Event.Record)
		}
	}
}

func TestObserversGaugeTracksConcurrentChanges(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("obs-%d", i)
			if _, err := r.Subscribe(id, "http://127.0.0.1/"+id); err != nil {
				t.Errorf("subscribe: %v", err)
			}
			if i%2 == 0 {
				if err := r.Unsubscribe(id); err != nil {
					t.Errorf("unsubscribe: %v", err)
				}
			}
		}(i)
	}
	wg.Wait()
	if got, want := testutil.ToFloat64(observersGauge), float64(len(r.ListObservers())); got != want || want != 10 {
		t.Fatalf("observers gauge=%v want %v (10 observers)", got, want)
	}
}
