package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/internal/controllers"
	"github.com/basshamut/gruastremart-core-api/internal/services"
)

func runOperatorRouter(secureGroup *echo.Group, operatorService services.OperatorServiceInterface, logger *zap.Logger) {
	operatorCtrl := controllers.NewOperatorController(operatorService, logger)

	secureGroup.PUT("/operators/:id/location", operatorCtrl.UpdateLocation)
	secureGroup.GET("/operators/:id/location", operatorCtrl.GetLocation)
	secureGroup.GET("/operators/:id/location/status", operatorCtrl.LocationStatus)
}
