package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/internal/dto"
	"github.com/basshamut/gruastremart-core-api/internal/services"
	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
	"github.com/basshamut/gruastremart-core-api/pkg/utils"
)

type PaymentController struct {
	service services.PaymentServiceInterface
	logger  *zap.Logger
}

func NewPaymentController(service services.PaymentServiceInterface, logger *zap.Logger) *PaymentController {
	return &PaymentController{service: service, logger: logger}
}

func (c *PaymentController) Register(ctx echo.Context) error {
	var d dto.RegisterPaymentDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.service.RegisterPayment(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "payment registered", http.StatusCreated)
}

func (c *PaymentController) History(ctx echo.Context) error {
	limit := parseUintQuery(ctx, "limit", 10)
	offset := parseUintQuery(ctx, "offset", 0)
	status := ctx.QueryParam("status")

	list, total, err := c.service.GetPaymentHistory(ctx.Request().Context(), status, limit, offset)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	page := 0
	if limit > 0 {
		page = int(offset / limit)
	}
	return utils.SuccessListResponse(ctx, list, "payment history", total, page, int(limit))
}

func parseUintQuery(ctx echo.Context, name string, fallback uint64) uint64 {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}
