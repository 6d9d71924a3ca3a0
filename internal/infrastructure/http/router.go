package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/adrian5517/nagaclean-client/internal/infrastructure/http/handlers"
)

// NewRouter builds the ops Echo instance: health probes and the Prometheus
// exposition endpoint. This is the only HTTP surface the daemon serves.
func NewRouter(storage handlers.Pinger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// --- Health probes ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(storage)

	e.GET("/health", healthHandler.Liveness)             // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness)   // readiness – is session storage up?

	// --- Metrics (default registry: API client, refresh, lifecycle) ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
