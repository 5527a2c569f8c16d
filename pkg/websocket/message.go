package websocket

import "time"

// Envelope wraps every message sent over a live-tracking connection so the
// frontend can dispatch on Type.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// OperatorPositionPayload is the live-tracking payload pushed to clients
// subscribed to a demand topic.
type OperatorPositionPayload struct {
	OperatorID string    `json:"operatorId"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Status     string    `json:"status"`
	ReportedAt time.Time `json:"reportedAt"`
}

// DemandEventPayload announces a lifecycle change of a crane demand.
type DemandEventPayload struct {
	DemandID    string `json:"demandId"`
	State       string `json:"state"`
	Description string `json:"description,omitempty"`
}
