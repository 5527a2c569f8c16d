package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/internal/repositories"
	"github.com/basshamut/gruastremart-core-api/internal/services"
	"github.com/basshamut/gruastremart-core-api/pkg/utils"
)

// exportPageSize pulls the whole filtered set in one page for the export.
const exportPageSize = 100000

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// GetDemandReport returns the filtered demand list, as an xlsx download
// when format=xlsx and as JSON otherwise. It accepts the same query
// parameters as the demand search endpoint.
func (c *ReportController) GetDemandReport(ctx echo.Context) error {
	filter, err := repositories.ParseDemandFilter(ctx.Request().URL.Query())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if strings.ToLower(ctx.QueryParam("format")) != "xlsx" {
		list, total, err := c.reportService.ListDemands(ctx.Request().Context(), filter)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessListResponse(ctx, list, "report generated", total, filter.Page, filter.Size)
	}

	filter.Page = 0
	filter.Size = exportPageSize

	buf, err := c.reportService.GenerateDemandReport(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filename := fmt.Sprintf("crane_demands_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
