// Package registry holds the authoritative in-memory state of records and
// observers and turns every successful mutation into a change event. It is
// structured into small files by concern:
//
//   - registry.go: core Registry type and read-only views.
//   - config.go: Config and package defaults; New applies defaults.
//   - ops.go: subscribe/unsubscribe and record CRUD.
//   - errors.go: error types and helpers (IsValidation, IsNotFound).
//   - events.go: the Publisher seam the notifier plugs into.
//   - eventpub_memory.go: an in-memory Publisher for tests.
//   - status_report.go: Stats for /status.
//   - metrics.go: prometheus gauges and counters.
//   - loader.go: optional seed file of initial records.
//
// A single RWMutex serializes every mutation. The observer snapshot handed to
// the Publisher is taken under the same lock as the mutation it describes, so
// observers subscribing or leaving afterwards do not affect that fan-out.
// Publish is called under the lock, so events are queued in mutation order;
// it must only enqueue and never block on delivery.
package registry
