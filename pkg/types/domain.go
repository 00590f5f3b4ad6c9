package types

// Record is a mutable data entity held by the registry.
type Record struct {
	// Unique identifier assigned by the registry. Never reused.
	// example: 1
	ID int64 `json:"id" example:"1"`
	// Human-friendly name.
	// example: temperature
	Name string `json:"name" example:"temperature"`
	// Opaque value.
	// example: 21.5
	Value string `json:"value" example:"21.5"`
}

// Observer is a registered listener that receives change events over HTTP.
type Observer struct {
	// Caller-chosen identifier, unique within the registry.
	// example: listener-a
	ID string `json:"id" example:"listener-a"`
	// Callback address receiving POSTed change events.
	// example: http://localhost:3001/webhook
	WebhookURL string `json:"webhookUrl" example:"http://localhost:3001/webhook"`
}
