package router

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/acme-commerce/storefront-api/internal/api"
	carthandlers "github.com/acme-commerce/storefront-api/internal/api/handlers/cart"
	"github.com/acme-commerce/storefront-api/internal/api/handlers/payments"
	"github.com/acme-commerce/storefront-api/internal/api/handlers/wellknown"
)

func attachAllRoutes(s *api.Server) {
	routes := []*echo.Route{
		wellknown.GetHealthyRoute(s),
		wellknown.GetReadyRoute(s),

		carthandlers.PostCartRoute(s),
		carthandlers.GetCartRoute(s),
		carthandlers.PostCartItemRoute(s),
		carthandlers.PutCartItemRoute(s),
		carthandlers.DeleteCartItemRoute(s),
	}

	// The interactive checkout flow is feature-flagged; a disabled flag
	// leaves the storefront on its plain redirect checkout.
	if s.Config.Payments.InteractiveCheckoutEnabled {
		routes = append(routes,
			payments.PostPaymentStartRoute(s),
			payments.PostPaymentFinishRoute(s),
		)
	} else {
		log.Warn().Msg("Interactive checkout disabled, payment routes not mounted")
	}

	s.Router.Routes = routes
}
