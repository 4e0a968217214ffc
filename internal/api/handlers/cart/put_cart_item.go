package cart

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/acme-commerce/storefront-api/internal/api"
	"github.com/acme-commerce/storefront-api/internal/api/httperrors"
	"github.com/acme-commerce/storefront-api/internal/cart"
	"github.com/acme-commerce/storefront-api/internal/types"
	"github.com/acme-commerce/storefront-api/internal/util"
)

func PutCartItemRoute(s *api.Server) *echo.Route {
	return s.Router.Cart.PUT("/:cartID/items/:itemID", putCartItemHandler(s))
}

func putCartItemHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PutCartItemPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		updated, err := s.Carts.UpdateItem(ctx, c.Param("cartID"), c.Param("itemID"), swag.Int64Value(body.Quantity))
		if err != nil {
			switch {
			case errors.Is(err, cart.ErrNotFound):
				return httperrors.ErrNotFoundCart
			case errors.Is(err, cart.ErrItemNotFound):
				return httperrors.ErrNotFoundCartItem
			}
			util.LogFromContext(ctx).Error().Err(err).Msg("Failed to update cart item")
			return echo.ErrInternalServerError
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.CartResponse{Cart: updated})
	}
}
