package dto

type RegisterPaymentDTO struct {
	DemandID               string  `json:"demandId" validate:"required"`
	MobilePaymentReference string  `json:"mobilePaymentReference,omitempty"`
	Amount                 float64 `json:"amount" validate:"required,gt=0"`
}
