package types

// SubscribeRequest is the body of POST /subscribe.
type SubscribeRequest struct {
	// Observer identifier chosen by the caller.
	// example: listener-a
	ID string `json:"id" example:"listener-a"`
	// Callback address for change events.
	// example: http://localhost:3001/webhook
	WebhookURL string `json:"webhookUrl" example:"http://localhost:3001/webhook"`
}

// SubscribeResponse echoes the registered observer.
type SubscribeResponse struct {
	// example: Subscribed successfully
	Message    string `json:"message" example:"Subscribed successfully"`
	ID         string `json:"id" example:"listener-a"`
	WebhookURL string `json:"webhookUrl" example:"http://localhost:3001/webhook"`
}

// UnsubscribeRequest is the body of POST /unsubscribe.
type UnsubscribeRequest struct {
	// example: listener-a
	ID string `json:"id" example:"listener-a"`
}

// UnsubscribeResponse echoes the removed observer id.
type UnsubscribeResponse struct {
	// example: Unsubscribed successfully
	Message string `json:"message" example:"Unsubscribed successfully"`
	ID      string `json:"id" example:"listener-a"`
}

// RecordRequest is the body of POST /data and PUT /data/{id}.
type RecordRequest struct {
	// example: temperature
	Name string `json:"name" example:"temperature"`
	// example: 21.5
	Value string `json:"value" example:"21.5"`
}

// DeleteResponse is returned by DELETE /data/{id}.
type DeleteResponse struct {
	// example: Deleted successfully
	Message string `json:"message" example:"Deleted successfully"`
	// example: 1
	ID int64 `json:"id" example:"1"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: name and value are required
	Error string `json:"error" example:"name and value are required"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatsResponse is returned by GET /status.
type StatsResponse struct {
	// Number of records currently held.
	// example: 3
	Records int `json:"records" example:"3"`
	// Number of registered observers.
	// example: 2
	Observers int `json:"observers" example:"2"`
	// Id the next added record will receive.
	// example: 4
	NextID int64 `json:"next_id" example:"4"`
	// Change events emitted since start, by kind.
	EventsTotal map[EventKind]uint64 `json:"events_total"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// HealthResponse is returned by the listener's GET /health.
type HealthResponse struct {
	// example: running
	Status string `json:"status" example:"running"`
	// Listener identifier.
	// example: listener-a
	ID string `json:"id" example:"listener-a"`
}

// AckResponse is returned by the listener after accepting a webhook.
type AckResponse struct {
	Status  string    `json:"status" example:"received"`
	Message string    `json:"message" example:"Notification processed"`
	Event   EventKind `json:"event" example:"DATA_ADDED"`
}

// Listener status values.
const (
	StatusRunning  = "running"
	StatusReceived = "received"
)

// Headers set on every webhook POST.
const (
	HeaderEvent    = "X-Notifyd-Event"
	HeaderDelivery = "X-Notifyd-Delivery"
)
