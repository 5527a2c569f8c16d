package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/internal/controllers"
	"github.com/basshamut/gruastremart-core-api/internal/listeners"
	"github.com/basshamut/gruastremart-core-api/internal/repositories"
	"github.com/basshamut/gruastremart-core-api/internal/services"
	"github.com/basshamut/gruastremart-core-api/pkg/config"
	"github.com/basshamut/gruastremart-core-api/pkg/eventbus"
	"github.com/basshamut/gruastremart-core-api/pkg/middleware"
	"github.com/basshamut/gruastremart-core-api/pkg/service"
	"github.com/basshamut/gruastremart-core-api/pkg/websocket"
)

// Deps carries the shared infrastructure built in main.
type Deps struct {
	DB            *pgxpool.Pool
	LocationCache repositories.OperatorLocationCacheInterface
	Hub           *websocket.Hub
	Bus           *eventbus.Bus
	JWTService    service.JWTService
	Config        *config.Config
	Logger        *zap.Logger
}

// InitRouter wires repositories, services, listeners and controllers and
// registers every route. All business routes sit behind the auth
// middleware; the websocket handshake authenticates via query token.
func InitRouter(e *echo.Echo, deps Deps) {
	api := e.Group("/api/v1")
	authMW := middleware.NewAuthMiddleware(deps.JWTService, deps.Logger)
	secure := api.Group("", authMW.Auth)

	demandRepo := repositories.NewDemandRepository(deps.DB)
	userRepo := repositories.NewUserRepository(deps.DB)
	paymentRepo := repositories.NewPaymentRepository(deps.DB)

	trackingService := services.NewLiveTrackingService(deps.Hub, deps.Logger)
	emailService := services.NewMockEmailService(deps.Logger)
	demandService := services.NewDemandService(demandRepo, userRepo, deps.LocationCache, deps.Bus, deps.Logger)
	operatorService := services.NewOperatorService(deps.LocationCache, demandRepo, trackingService, deps.Logger)
	paymentService := services.NewPaymentService(paymentRepo, demandRepo, deps.Logger)
	reportService := services.NewReportService(demandRepo, deps.Logger)

	notificationListener := listeners.NewNotificationListener(
		emailService, trackingService, userRepo, deps.Config.Notifications, deps.Logger)
	notificationListener.Register(deps.Bus)

	runDemandRouter(secure, demandService, deps.Logger)
	runOperatorRouter(secure, operatorService, deps.Logger)
	runPaymentRouter(secure, paymentService, reportService, deps.Logger)

	wsCtrl := controllers.NewWebSocketController(deps.Hub, deps.JWTService, deps.Logger)
	e.GET("/ws", wsCtrl.ServeWs)
	e.GET("/ws/demands/:id", wsCtrl.ServeDemandWs)
}
