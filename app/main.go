package main

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/internal/repositories"
	"github.com/basshamut/gruastremart-core-api/internal/routes"
	"github.com/basshamut/gruastremart-core-api/pkg/config"
	"github.com/basshamut/gruastremart-core-api/pkg/database/postgresql"
	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
	"github.com/basshamut/gruastremart-core-api/pkg/eventbus"
	applogger "github.com/basshamut/gruastremart-core-api/pkg/logger"
	"github.com/basshamut/gruastremart-core-api/pkg/service"
	"github.com/basshamut/gruastremart-core-api/pkg/utils"
	appwebsocket "github.com/basshamut/gruastremart-core-api/pkg/websocket"
)

func main() {
	e := echo.New()
	logger := applogger.NewLogger()
	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "internal server error", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Disposition"},
	}))

	e.Validator = utils.NewValidator(validator.New())

	ctx := context.Background()
	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := postgresql.RunMigrations(cfg.Postgres.DSN, "migrations"); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	locationCache, err := buildLocationCache(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("location cache setup failed", zap.Error(err))
	}

	hub := appwebsocket.NewHub(logger)
	go hub.Run()

	bus := eventbus.New(logger)
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)

	routes.InitRouter(e, routes.Deps{
		DB:            dbConn,
		LocationCache: locationCache,
		Hub:           hub,
		Bus:           bus,
		JWTService:    jwtSvc,
		Config:        cfg,
		Logger:        logger,
	})

	logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// buildLocationCache selects the operator location cache driver. Redis is
// shared across instances; the in-process cache fits single-node setups.
func buildLocationCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.OperatorLocationCacheInterface, error) {
	if cfg.OperatorCache.Driver == "redis" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		if _, err := redisClient.Ping(ctx).Result(); err != nil {
			return nil, err
		}
		logger.Info("operator location cache: redis", zap.String("address", cfg.Redis.Address))
		return repositories.NewRedisLocationCache(redisClient, cfg.OperatorCache.TTL), nil
	}

	logger.Info("operator location cache: memory",
		zap.Duration("ttl", cfg.OperatorCache.TTL),
		zap.Int("maxEntries", cfg.OperatorCache.MaxEntries),
	)
	return repositories.NewMemoryLocationCache(cfg.OperatorCache.TTL, cfg.OperatorCache.MaxEntries), nil
}
