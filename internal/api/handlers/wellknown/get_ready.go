package wellknown

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/acme-commerce/storefront-api/internal/api"
)

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET("/-/ready", getReadyHandler(s))
}

// getReadyHandler is the readiness probe: router and dependencies wired.
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(http.StatusServiceUnavailable, "not ready.")
		}
		return c.String(http.StatusOK, "ready.")
	}
}
