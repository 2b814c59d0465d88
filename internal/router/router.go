package router

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"userapi/docs"
	"userapi/internal/config"
	"userapi/internal/handler"
)

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, log *zap.Logger, userHandler *handler.UserHandler) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = swaggerHost(cfg.SwaggerHost)
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	api.GET("/users", userHandler.Index)
	api.POST("/users", userHandler.Store)
	api.GET("/users/:id", userHandler.Show)
	api.PUT("/users/:id", userHandler.Update)
	api.DELETE("/users/:id", userHandler.Destroy)
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	access := log.Named("http")

	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				access.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			access.Info("request", fields...)
			return nil
		},
	})
}

// swaggerHost strips a scheme so SWAGGER_HOST may be given as a URL.
func swaggerHost(host string) string {
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimPrefix(host, "https://")
	return strings.TrimSuffix(host, "/")
}
