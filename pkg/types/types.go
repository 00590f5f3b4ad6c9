package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// EventKind names the mutation that produced a ChangeEvent.
type EventKind string

const (
	EventAdded   EventKind = "DATA_ADDED"
	EventUpdated EventKind = "DATA_UPDATED"
	EventDeleted EventKind = "DATA_DELETED"
)

// Valid reports whether k is one of the known kinds.
func (k EventKind) Valid() bool {
	switch k {
	case EventAdded, EventUpdated, EventDeleted:
		return true
	}
	return false
}

// TimestampLayout is the ISO-8601 layout used on the wire.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ChangeEvent describes one mutation of the registry. For added and updated
// events Record is set; for deleted events only DeletedID is meaningful.
// Build events with NewAddedEvent, NewUpdatedEvent or NewDeletedEvent.
type ChangeEvent struct {
	Kind       EventKind
	Record     *Record
	DeletedID  int64
	OccurredAt time.Time
}

// NewAddedEvent returns an event carrying a copy of rec.
func NewAddedEvent(rec Record, at time.Time) ChangeEvent {
	return ChangeEvent{Kind: EventAdded, Record: &rec, OccurredAt: at}
}

// NewUpdatedEvent returns an event carrying a copy of rec.
func NewUpdatedEvent(rec Record, at time.Time) ChangeEvent {
	return ChangeEvent{Kind: EventUpdated, Record: &rec, OccurredAt: at}
}

// NewDeletedEvent returns an event carrying only the removed record id.
func NewDeletedEvent(id int64, at time.Time) ChangeEvent {
	return ChangeEvent{Kind: EventDeleted, DeletedID: id, OccurredAt: at}
}

// Payload returns the value sent as "data": a Record for added/updated
// events, the record id for deleted events.
func (e ChangeEvent) Payload() any {
	if e.Kind == EventDeleted {
		return e.DeletedID
	}
	if e.Record == nil {
		return nil
	}
	return *e.Record
}

// WebhookPayload is the JSON body POSTed to observers.
type WebhookPayload struct {
	// Event kind.
	// example: DATA_ADDED
	Event EventKind `json:"event" example:"DATA_ADDED"`
	// A Record for DATA_ADDED/DATA_UPDATED, the record id for DATA_DELETED.
	Data json.RawMessage `json:"data" swaggertype:"object"`
	// ISO-8601 time of the mutation.
	// example: 2024-01-01T12:00:00.000Z
	Timestamp string `json:"timestamp" example:"2024-01-01T12:00:00.000Z"`
}

// MarshalJSON encodes the event in webhook wire form.
func (e ChangeEvent) MarshalJSON() ([]byte, error) {
	if !e.Kind.Valid() {
		return nil, fmt.Errorf("unknown event kind %q", e.Kind)
	}
	data, err := json.Marshal(e.Payload())
	if err != nil {
		return nil, err
	}
	return json.Marshal(WebhookPayload{
		Event:     e.Kind,
		Data:      data,
		Timestamp: e.OccurredAt.UTC().Format(TimestampLayout),
	})
}

// UnmarshalJSON decodes the webhook wire form, interpreting "data" by kind.
func (e *ChangeEvent) UnmarshalJSON(b []byte) error {
	var p WebhookPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if !p.Event.Valid() {
		return fmt.Errorf("unknown event kind %q", p.Event)
	}
	if d := bytes.TrimSpace(p.Data); len(d) == 0 || bytes.Equal(d, []byte("null")) {
		return fmt.Errorf("missing data for %s", p.Event)
	}
	out := ChangeEvent{Kind: p.Event}
	if p.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339Nano, p.Timestamp)
		if err != nil {
			return fmt.Errorf("bad timestamp: %w", err)
		}
		out.OccurredAt = ts
	}
	switch p.Event {
	case EventDeleted:
		if err := json.Unmarshal(p.Data, &out.DeletedID); err != nil {
			return fmt.Errorf("data for %s: %w", p.Event, err)
		}
	default:
		var rec Record
		if err := json.Unmarshal(p.Data, &rec); err != nil {
			return fmt.Errorf("data for %s: %w", p.Event, err)
		}
		out.Record = &rec
	}
	*e = out
	return nil
}

// DeliveryResult reports the outcome of one webhook POST.
type DeliveryResult struct {
	// Delivery identifier sent in the X-Notifyd-Delivery header.
	DeliveryID string `json:"delivery_id" example:"3f1c7d0e-8a44-4a55-9d0c-6b2b8f0f3a10"`
	// Observer that was targeted.
	ObserverID string `json:"observer_id" example:"listener-a"`
	// Event kind delivered.
	Event EventKind `json:"event" example:"DATA_ADDED"`
	// HTTP status returned by the listener; 0 on transport failure.
	StatusCode int `json:"status_code" example:"200"`
	// Transport error, empty when delivered.
	Error string `json:"error,omitempty"`
	// Round-trip duration in milliseconds.
	DurationMS int64 `json:"duration_ms" example:"12"`
	// Time the attempt finished (unix seconds).
	FinishedAt int64 `json:"finished_unix" example:"1700000000"`
}

// Delivered reports whether the listener was reached. Any HTTP status counts.
func (r DeliveryResult) Delivered() bool { return r.Error == "" }
