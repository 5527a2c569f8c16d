package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Payment is a reconciliation record registered after a demand completes.
type Payment struct {
	ID                     string      `json:"id"`
	DemandID               string      `json:"demandId"`
	UserID                 string      `json:"userId"`
	MobilePaymentReference null.String `json:"mobilePaymentReference,omitempty"`
	Amount                 float64     `json:"amount"`
	Status                 string      `json:"status"`
	CreatedAt              time.Time   `json:"createdAt"`
	UpdatedAt              time.Time   `json:"updatedAt"`
}
