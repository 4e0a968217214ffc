package wellknown

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/acme-commerce/storefront-api/internal/api"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET("/-/healthy", getHealthyHandler(s))
}

// getHealthyHandler is the liveness probe: the process is up and serving.
func getHealthyHandler(_ *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, "ok.")
	}
}
