package controllers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/pkg/constants"
	"github.com/basshamut/gruastremart-core-api/pkg/service"
	appwebsocket "github.com/basshamut/gruastremart-core-api/pkg/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketController struct {
	hub        *appwebsocket.Hub
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewWebSocketController(hub *appwebsocket.Hub, jwtService service.JWTService, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{
		hub:        hub,
		jwtService: jwtService,
		logger:     logger,
	}
}

// ServeWs upgrades the connection and registers the client on the hub.
// Browsers cannot set an Authorization header on a websocket handshake,
// so the token travels as a query parameter.
func (c *WebSocketController) ServeWs(ctx echo.Context) error {
	return c.serve(ctx, "")
}

// ServeDemandWs subscribes the client to one demand's tracking topic, so
// the requester's map receives the assigned operator's positions.
func (c *WebSocketController) ServeDemandWs(ctx echo.Context) error {
	demandID := ctx.Param("id")
	if demandID == "" {
		return ctx.String(http.StatusBadRequest, "missing demand id")
	}
	return c.serve(ctx, fmt.Sprintf(constants.TrackingTopicDemand, demandID))
}

func (c *WebSocketController) serve(ctx echo.Context, topic string) error {
	tokenString := ctx.QueryParam("token")
	if tokenString == "" {
		return ctx.String(http.StatusUnauthorized, "missing token")
	}

	claims, err := c.jwtService.ValidateToken(tokenString)
	if err != nil {
		return ctx.String(http.StatusUnauthorized, "invalid token")
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("websocket upgrade failed", zap.Error(err))
		return err
	}

	client := appwebsocket.NewClient(c.hub, conn, claims.UserID, topic)
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	c.logger.Info("websocket client connected",
		zap.String("userID", claims.UserID),
		zap.String("topic", topic),
	)
	return nil
}
