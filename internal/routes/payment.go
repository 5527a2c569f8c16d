package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/internal/controllers"
	"github.com/basshamut/gruastremart-core-api/internal/services"
)

func runPaymentRouter(secureGroup *echo.Group, paymentService services.PaymentServiceInterface, reportService services.ReportServiceInterface, logger *zap.Logger) {
	paymentCtrl := controllers.NewPaymentController(paymentService, logger)
	reportCtrl := controllers.NewReportController(reportService, logger)

	secureGroup.POST("/payments", paymentCtrl.Register)
	secureGroup.GET("/payments", paymentCtrl.History)

	secureGroup.GET("/reports/crane-demands", reportCtrl.GetDemandReport)
}
