package router

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/acme-commerce/storefront-api/internal/api"
	"github.com/acme-commerce/storefront-api/internal/api/middleware"
)

// Init wires the echo instance, middleware stack and all routes onto the
// server.
func Init(s *api.Server) {
	s.Echo = echo.New()
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.HTTPErrorHandler = api.HTTPErrorHandler(s.Config.Echo)

	if s.Config.Echo.EnableRecoverMiddleware {
		s.Echo.Use(echomiddleware.Recover())
	}
	if s.Config.Echo.EnableRequestIDMiddleware {
		s.Echo.Use(echomiddleware.RequestID())
	}
	if s.Config.Echo.EnableLoggerMiddleware {
		s.Echo.Use(middleware.Logger(s.Config.Logger.RequestLevel))
	}
	if s.Config.Echo.EnableCORSMiddleware {
		s.Echo.Use(echomiddleware.CORS())
	}
	if s.Config.Metrics.Enabled {
		s.Echo.Use(echoprometheus.NewMiddleware(s.Config.Metrics.Subsystem))
		s.Echo.GET("/-/metrics", echoprometheus.NewHandler())
	}

	s.Router = &api.Router{
		Root:    s.Echo.Group(""),
		Payment: s.Echo.Group("/payment"),
		Cart:    s.Echo.Group("/cart"),
	}

	attachAllRoutes(s)
}
