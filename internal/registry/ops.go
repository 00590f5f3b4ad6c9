package registry

import (
	"strings"

	"notifyd/pkg/types"
)

// Subscribe registers an observer. Re-subscribing an existing id is a no-op
// and leaves its callback address unchanged; the stored observer is returned.
func (r *Registry) Subscribe(id, webhookURL string) (types.Observer, error) {
	if blank(id) || blank(webhookURL) {
		return types.Observer{}, ErrValidation("id", "webhookUrl")
	}
	r.mu.Lock()
	if i := r.indexOfObserver(id); i >= 0 {
		existing := r.observers[i]
		r.mu.Unlock()
		r.log.Debug().Str("observer", id).Msg("observer already subscribed")
		return existing, nil
	}
	obs := types.Observer{ID: id, WebhookURL: webhookURL}
	r.observers = append(r.observers, obs)
	observersGauge.Set(float64(len(r.observers)))
	r.mu.Unlock()
	r.log.Info().Str("observer", id).Str("webhook_url", webhookURL).Msg("observer subscribed")
	return obs, nil
}

// Unsubscribe removes the observer with the given id. Unknown ids are ignored.
func (r *Registry) Unsubscribe(id string) error {
	if blank(id) {
		return ErrValidation("id")
	}
	r.mu.Lock()
	i := r.indexOfObserver(id)
	if i < 0 {
		r.mu.Unlock()
		return nil
	}
	r.observers = append(r.observers[:i], r.observers[i+1:]...)
	observersGauge.Set(float64(len(r.observers)))
	r.mu.Unlock()
	r.log.Info().Str("observer", id).Msg("observer unsubscribed")
	return nil
}

// AddRecord appends a record under the next id and emits DATA_ADDED.
func (r *Registry) AddRecord(name, value string) (types.Record, error) {
	if blank(name) || blank(value) {
		return types.Record{}, ErrValidation("name", "value")
	}
	r.mu.Lock()
	rec := types.Record{ID: r.nextID, Name: name, Value: value}
	r.nextID++
	r.records = append(r.records, rec)
	evt := types.NewAddedEvent(rec, r.clock.Now())
	r.publishLocked(evt)
	r.mu.Unlock()
	return rec, nil
}

// UpdateRecord replaces name and value of an existing record and emits
// DATA_UPDATED. Unknown ids return a not-found error and emit nothing.
func (r *Registry) UpdateRecord(id int64, name, value string) (types.Record, error) {
	if blank(name) || blank(value) {
		return types.Record{}, ErrValidation("name", "value")
	}
	r.mu.Lock()
	i := r.indexOfRecord(id)
	if i < 0 {
		r.mu.Unlock()
		return types.Record{}, ErrRecordNotFound(id)
	}
	r.records[i].Name = name
	r.records[i].Value = value
	rec := r.records[i]
	evt := types.NewUpdatedEvent(rec, r.clock.Now())
	r.publishLocked(evt)
	r.mu.Unlock()
	return rec, nil
}

// DeleteRecord removes a record and emits DATA_DELETED carrying its id.
// Unknown ids return a not-found error and emit nothing.
func (r *Registry) DeleteRecord(id int64) error {
	r.mu.Lock()
	i := r.indexOfRecord(id)
	if i < 0 {
		r.mu.Unlock()
		return ErrRecordNotFound(id)
	}
	r.records = append(r.records[:i], r.records[i+1:]...)
	evt := types.NewDeletedEvent(id, r.clock.Now())
	r.publishLocked(evt)
	r.mu.Unlock()
	return nil
}

// publishLocked books the event and hands it to the publisher together with
// the current observers. Caller must hold mu, so events are queued in the
// order mutations were applied; Publisher implementations never block.
func (r *Registry) publishLocked(evt types.ChangeEvent) {
	r.eventsBy[evt.Kind]++
	recordsGauge.Set(float64(len(r.records)))
	eventsTotal.WithLabelValues(string(evt.Kind)).Inc()
	obs := r.observersLocked()
	r.log.Info().Str("event", string(evt.Kind)).Int("observers", len(obs)).Msg("notifying observers")
	r.pub.Publish(evt, obs)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
