package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/internal/dto"
	"github.com/basshamut/gruastremart-core-api/internal/services"
	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
	"github.com/basshamut/gruastremart-core-api/pkg/utils"
)

type OperatorController struct {
	service services.OperatorServiceInterface
	logger  *zap.Logger
}

func NewOperatorController(service services.OperatorServiceInterface, logger *zap.Logger) *OperatorController {
	return &OperatorController{service: service, logger: logger}
}

func (c *OperatorController) UpdateLocation(ctx echo.Context) error {
	var d dto.UpdateOperatorLocationDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.service.SaveOperatorLocation(ctx.Request().Context(), ctx.Param("id"), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "operator location updated", http.StatusOK)
}

func (c *OperatorController) GetLocation(ctx echo.Context) error {
	result, err := c.service.GetOperatorLocation(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "operator location found", http.StatusOK)
}

func (c *OperatorController) LocationStatus(ctx echo.Context) error {
	cached, err := c.service.IsOperatorLocationCached(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]bool{"cached": cached}, "operator location status", http.StatusOK)
}
