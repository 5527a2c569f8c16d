package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/internal/controllers"
	"github.com/basshamut/gruastremart-core-api/internal/services"
)

func runDemandRouter(secureGroup *echo.Group, demandService services.DemandServiceInterface, logger *zap.Logger) {
	demandCtrl := controllers.NewDemandController(demandService, logger)

	secureGroup.GET("/crane-demands", demandCtrl.Search)
	secureGroup.GET("/crane-demands/:id", demandCtrl.GetByID)
	secureGroup.POST("/crane-demands", demandCtrl.Create)
	secureGroup.PATCH("/crane-demands/:id/take", demandCtrl.Assign)
	secureGroup.PATCH("/crane-demands/:id/cancel", demandCtrl.Cancel)
	secureGroup.PATCH("/crane-demands/:id/complete", demandCtrl.Complete)
	secureGroup.DELETE("/crane-demands/:id", demandCtrl.Deactivate)
}
