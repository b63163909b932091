package types

import "encoding/json"

// ------------------------------
// Response Types
// ------------------------------

// HelloResponse is returned by GET /api/hello.
type HelloResponse struct {
	Message string `json:"message"`
}

// EchoResponse wraps whatever payload the backend received.
type EchoResponse struct {
	YouSent map[string]any `json:"you sent"`
}

// ConstructionUpdateResult reports the outcome of a manual construction data refresh.
type ConstructionUpdateResult struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	FeatureCount int    `json:"feature_count,omitempty"`
}

// EnqueueAck represents acknowledgment of an async operation.
type EnqueueAck struct {
	JobID      string `json:"jobId"`
	ExternalID string `json:"externalId"`
	Status     string `json:"status"`
}

// Notification is a single message pushed over the notifications socket.
// Type is "connected", "pong" or "construction_alert".
type Notification struct {
	Type      string              `json:"type"`
	Message   string              `json:"message,omitempty"`
	UserID    int                 `json:"user_id,omitempty"`
	Alerts    []ConstructionAlert `json:"alerts,omitempty"`
	Timestamp string              `json:"timestamp,omitempty"`

	// Raw holds the undecoded frame.
	Raw json.RawMessage `json:"-"`
}
