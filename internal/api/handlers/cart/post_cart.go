package cart

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/acme-commerce/storefront-api/internal/api"
	"github.com/acme-commerce/storefront-api/internal/types"
	"github.com/acme-commerce/storefront-api/internal/util"
)

func PostCartRoute(s *api.Server) *echo.Route {
	return s.Router.Cart.POST("", postCartHandler(s))
}

func postCartHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		created, err := s.Carts.Create(ctx)
		if err != nil {
			util.LogFromContext(ctx).Error().Err(err).Msg("Failed to create cart")
			return echo.ErrInternalServerError
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.CartResponse{Cart: created})
	}
}
