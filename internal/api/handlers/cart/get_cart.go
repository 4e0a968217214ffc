package cart

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/acme-commerce/storefront-api/internal/api"
	"github.com/acme-commerce/storefront-api/internal/api/httperrors"
	"github.com/acme-commerce/storefront-api/internal/cart"
	"github.com/acme-commerce/storefront-api/internal/types"
	"github.com/acme-commerce/storefront-api/internal/util"
)

func GetCartRoute(s *api.Server) *echo.Route {
	return s.Router.Cart.GET("/:cartID", getCartHandler(s))
}

func getCartHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		found, err := s.Carts.Get(ctx, c.Param("cartID"))
		if err != nil {
			if errors.Is(err, cart.ErrNotFound) {
				return httperrors.ErrNotFoundCart
			}
			util.LogFromContext(ctx).Error().Err(err).Msg("Failed to load cart")
			return echo.ErrInternalServerError
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.CartResponse{Cart: found})
	}
}
