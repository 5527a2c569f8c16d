package dto

// LocationDTO carries a coordinate pair on the wire. Accuracy may be null
// for destinations.
type LocationDTO struct {
	Latitude  float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64  `json:"longitude" validate:"min=-180,max=180"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Name      string   `json:"name,omitempty"`
}

type CreateCraneDemandDTO struct {
	Description     string `json:"description" validate:"required"`
	Origin          string `json:"origin,omitempty"`
	CarType         string `json:"carType,omitempty"`
	Breakdown       string `json:"breakdown,omitempty"`
	ReferenceSource string `json:"referenceSource,omitempty"`
	RecommendedBy   string `json:"recommendedBy,omitempty"`

	VehicleBrand string `json:"vehicleBrand,omitempty"`
	VehicleModel string `json:"vehicleModel,omitempty"`
	VehicleYear  int    `json:"vehicleYear,omitempty"`
	VehiclePlate string `json:"vehiclePlate,omitempty"`
	VehicleColor string `json:"vehicleColor,omitempty"`

	CurrentLocation     *LocationDTO `json:"currentLocation,omitempty"`
	DestinationLocation *LocationDTO `json:"destinationLocation,omitempty"`
}

// AssignCraneDemandDTO is the operator's claim on a demand. The coordinates
// seed the location cache when the operator has no live entry yet.
type AssignCraneDemandDTO struct {
	OperatorUserID   string  `json:"operatorUserId" validate:"required"`
	WeightCategoryID string  `json:"weightCategoryId" validate:"required"`
	Latitude         float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude        float64 `json:"longitude" validate:"min=-180,max=180"`
}
