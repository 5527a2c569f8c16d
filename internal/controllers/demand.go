package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/internal/dto"
	"github.com/basshamut/gruastremart-core-api/internal/repositories"
	"github.com/basshamut/gruastremart-core-api/internal/services"
	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
	"github.com/basshamut/gruastremart-core-api/pkg/utils"
)

type DemandController struct {
	service services.DemandServiceInterface
	logger  *zap.Logger
}

func NewDemandController(service services.DemandServiceInterface, logger *zap.Logger) *DemandController {
	return &DemandController{service: service, logger: logger}
}

func (c *DemandController) Create(ctx echo.Context) error {
	var d dto.CreateCraneDemandDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.service.Create(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "crane demand created", http.StatusCreated)
}

func (c *DemandController) GetByID(ctx echo.Context) error {
	result, err := c.service.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "crane demand found", http.StatusOK)
}

// Search is the geo-filtered listing. Every filter arrives as a query
// parameter; invalid combinations are rejected, never silently fixed.
func (c *DemandController) Search(ctx echo.Context) error {
	filter, err := repositories.ParseDemandFilter(ctx.Request().URL.Query())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	list, total, err := c.service.FindWithFilters(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessListResponse(ctx, list, "crane demands found", total, filter.Page, filter.Size)
}

func (c *DemandController) Assign(ctx echo.Context) error {
	var d dto.AssignCraneDemandDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.service.Assign(ctx.Request().Context(), ctx.Param("id"), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "crane demand assigned", http.StatusOK)
}

func (c *DemandController) Cancel(ctx echo.Context) error {
	result, err := c.service.Cancel(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "crane demand cancelled", http.StatusOK)
}

func (c *DemandController) Complete(ctx echo.Context) error {
	result, err := c.service.Complete(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "crane demand completed", http.StatusOK)
}

func (c *DemandController) Deactivate(ctx echo.Context) error {
	result, err := c.service.Deactivate(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "crane demand deactivated", http.StatusOK)
}
