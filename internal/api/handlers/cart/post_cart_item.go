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

func PostCartItemRoute(s *api.Server) *echo.Route {
	return s.Router.Cart.POST("/:cartID/items", postCartItemHandler(s))
}

// postCartItemHandler adds a variant to the cart, incrementing the quantity
// when it is already present.
func postCartItemHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostCartItemPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		updated, err := s.Carts.AddItem(ctx, c.Param("cartID"), cart.ItemParams{
			ProductID: swag.StringValue(body.ProductID),
			VariantID: swag.StringValue(body.VariantID),
			Name:      swag.StringValue(body.Name),
			Price:     swag.Float64Value(body.Price),
		})
		if err != nil {
			if errors.Is(err, cart.ErrNotFound) {
				return httperrors.ErrNotFoundCart
			}
			util.LogFromContext(ctx).Error().Err(err).Msg("Failed to add cart item")
			return echo.ErrInternalServerError
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.CartResponse{Cart: updated})
	}
}
