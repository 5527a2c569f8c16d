package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"github.com/basshamut/gruastremart-core-api/pkg/constants"
)

// Location is an embedded coordinate pair with optional accuracy and a
// human-readable name. A demand may lack its current location entirely,
// in which case it is excluded from radius queries.
type Location struct {
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Accuracy  null.Float64 `json:"accuracy,omitempty"`
	Name      null.String  `json:"name,omitempty"`
}

// CraneDemand is a single towing-assistance service request.
type CraneDemand struct {
	ID          string `json:"id"`
	Description string `json:"description"`

	Origin          null.String `json:"origin,omitempty"`
	CarType         null.String `json:"carType,omitempty"`
	Breakdown       null.String `json:"breakdown,omitempty"`
	ReferenceSource null.String `json:"referenceSource,omitempty"`
	RecommendedBy   null.String `json:"recommendedBy,omitempty"`

	VehicleBrand null.String `json:"vehicleBrand,omitempty"`
	VehicleModel null.String `json:"vehicleModel,omitempty"`
	VehicleYear  null.Int    `json:"vehicleYear,omitempty"`
	VehiclePlate null.String `json:"vehiclePlate,omitempty"`
	VehicleColor null.String `json:"vehicleColor,omitempty"`

	State           string `json:"state"`
	CreatedByUserID string `json:"createdByUserId"`

	EditedByUserID           null.String `json:"editedByUserId,omitempty"`
	AssignedOperatorID       null.String `json:"assignedOperatorId,omitempty"`
	AssignedWeightCategoryID null.String `json:"assignedWeightCategoryId,omitempty"`
	PaymentID                null.String `json:"paymentId,omitempty"`

	CurrentLocation     *Location `json:"currentLocation,omitempty"`
	DestinationLocation *Location `json:"destinationLocation,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsActiveOrTaken reports whether the demand counts against the
// one-active-demand-per-creator invariant.
func (d *CraneDemand) IsActiveOrTaken() bool {
	return d.State == constants.DemandStateActive || d.State == constants.DemandStateTaken
}
