package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
	"github.com/basshamut/gruastremart-core-api/pkg/types"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Body    interface{} `json:"body,omitempty"`
}

// SuccessResponse returns a single object wrapped in the standard envelope.
func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{Status: true, Message: message, Body: body})
}

// SuccessListResponse returns a page of items plus pagination metadata
// computed from the total match count.
func SuccessListResponse(ctx echo.Context, list interface{}, message string, total uint64, page, size int) error {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + uint64(size) - 1) / uint64(size))
	}

	body := map[string]interface{}{
		"list": list,
		"pagination": types.Pagination{
			TotalCount: total,
			Page:       page,
			Size:       size,
			TotalPages: totalPages,
		},
	}
	return ctx.JSON(http.StatusOK, &HTTPResponse{Status: true, Message: message, Body: body})
}

// ErrorResponse maps an error to its HTTP status. Only HttpError carries a
// status; everything else is a 500 with a generic message so internals do
// not leak to clients.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}
		return c.JSON(httpErr.Code, &HTTPResponse{Status: false, Message: httpErr.Message})
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		return c.JSON(http.StatusNotFound, &HTTPResponse{Status: false, Message: apperrors.ErrNotFound.Error()})
	}

	logger.Error("unhandled error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, &HTTPResponse{Status: false, Message: "internal server error"})
}
