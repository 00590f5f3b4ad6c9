// Package listener is the receiving end of notifyd webhooks.
//
// A Listener decodes each POSTed change event, keeps a short history of what
// it received and dispatches the event in-process by kind through a
// juju/pubsub hub. Handlers registered with On run on the hub's goroutines,
// never on the HTTP request goroutine, so a slow handler cannot hold up the
// notifier's delivery.
//
// Files:
//   - listener.go: Listener, Config, dispatch and history
//   - server.go: chi router for /webhook, /health, /events and the
//     subscribe/unsubscribe proxies
//   - hublog.go: zerolog bridge for the pubsub hub
//   - metrics.go: Prometheus counters
package listener
