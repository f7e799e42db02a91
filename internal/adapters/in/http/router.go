package http

import (
	"log/slog"
	"net/http"

	"orderflow/internal/generated/servers"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterConfig holds what NewRouter mounts besides the API itself.
type RouterConfig struct {
	// Auth resolves the requester for every API route.
	Auth echo.MiddlewareFunc
	// Swagger is the document requests are validated against. Validation is off when nil.
	Swagger *openapi3.T
	// Metrics is served on /metrics when set.
	Metrics http.Handler
	Logger  *slog.Logger
}

// NewRouter builds the echo instance serving the API, health, metrics and docs.
func NewRouter(server *Server, cfg RouterConfig) (*echo.Echo, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if cfg.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(cfg.Metrics))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	var apiMiddleware []echo.MiddlewareFunc
	if cfg.Auth != nil {
		apiMiddleware = append(apiMiddleware, cfg.Auth)
	}
	if cfg.Swagger != nil {
		validate, err := ValidateRequests(cfg.Swagger)
		if err != nil {
			return nil, err
		}
		apiMiddleware = append(apiMiddleware, validate)
	}

	api := e.Group("", apiMiddleware...)
	servers.RegisterHandlers(api, server)

	return e, nil
}
