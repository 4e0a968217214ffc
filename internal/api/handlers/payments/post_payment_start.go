package payments

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"

	"github.com/acme-commerce/storefront-api/internal/api"
	"github.com/acme-commerce/storefront-api/internal/openpayments"
	"github.com/acme-commerce/storefront-api/internal/types"
	"github.com/acme-commerce/storefront-api/internal/util"
)

func PostPaymentStartRoute(s *api.Server) *echo.Route {
	return s.Router.Payment.POST("/start", postPaymentStartHandler(s))
}

// postPaymentStartHandler runs the non-interactive half of a checkout and
// returns everything the browser ceremony and the finish call need.
func postPaymentStartHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostPaymentStartPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		start, err := s.Checkout.Start(ctx, openpayments.StartParams{
			CustomerPaymentPointer: swag.StringValue(body.CustomerPaymentPointer),
			Amount:                 swag.StringValue(body.Amount),
		})
		observeOutcome("start", err)
		if err != nil {
			return paymentErrorResponse(c, err)
		}

		log.Info().
			Str("customer_pointer", swag.StringValue(body.CustomerPaymentPointer)).
			Str("incoming_payment_id", start.IncomingPayment.ID).
			Msg("Checkout started, awaiting user interaction")

		response := &types.PaymentStartResponse{
			OutgoingPaymentGrantContinue: start.OutgoingPaymentGrantContinue,
			IncomingPayment:              start.IncomingPayment,
			KeyID:                        start.KeyID,
			SignatureURL:                 start.SignatureURL,
			CustomerPaymentPointerURL:    start.CustomerPaymentPointerURL,
			MerchantPaymentPointerURL:    start.MerchantPaymentPointerURL,
			MerchantHost:                 start.MerchantHost,
			CustomerHost:                 start.CustomerHost,
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
