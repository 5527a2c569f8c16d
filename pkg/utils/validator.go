package utils

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
)

// Validator adapts go-playground/validator to echo's Validator interface.
type Validator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *Validator {
	return &Validator{validator: v}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, err.Error(), err, nil)
	}
	return nil
}
