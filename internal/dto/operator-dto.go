package dto

import "time"

// UpdateOperatorLocationDTO is the operator client's position report.
// Status is free-form; it defaults to ONLINE when omitted.
type UpdateOperatorLocationDTO struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Status    string  `json:"status,omitempty"`
}

// OperatorLocationDTO is the cached entry returned to clients.
type OperatorLocationDTO struct {
	OperatorID string    `json:"operatorId"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}
