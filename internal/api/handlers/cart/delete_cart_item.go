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

func DeleteCartItemRoute(s *api.Server) *echo.Route {
	return s.Router.Cart.DELETE("/:cartID/items/:itemID", deleteCartItemHandler(s))
}

func deleteCartItemHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		updated, err := s.Carts.RemoveItem(ctx, c.Param("cartID"), c.Param("itemID"))
		if err != nil {
			if errors.Is(err, cart.ErrNotFound) {
				return httperrors.ErrNotFoundCart
			}
			util.LogFromContext(ctx).Error().Err(err).Msg("Failed to remove cart item")
			return echo.ErrInternalServerError
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.CartResponse{Cart: updated})
	}
}
