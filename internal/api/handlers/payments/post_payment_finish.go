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

func PostPaymentFinishRoute(s *api.Server) *echo.Route {
	return s.Router.Payment.POST("/finish", postPaymentFinishHandler(s))
}

// postPaymentFinishHandler continues the outgoing grant with the browser's
// credential assertion and executes quote plus outgoing payment. The call is
// not idempotent: a second finish with the same continuation payload is
// rejected upstream.
func postPaymentFinishHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostPaymentFinishPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		payment, err := s.Checkout.Finish(ctx, openpayments.FinishParams{
			Credential:                   body.Credential,
			KeyID:                        swag.StringValue(body.KeyID),
			SignatureURL:                 swag.StringValue(body.SignatureURL),
			IncomingPayment:              body.IncomingPayment,
			OutgoingPaymentGrantContinue: body.OutgoingPaymentGrantContinue,
			CustomerPaymentPointerURL:    swag.StringValue(body.CustomerPaymentPointerURL),
			CustomerHost:                 swag.StringValue(body.CustomerHost),
			MerchantHost:                 swag.StringValue(body.MerchantHost),
		})
		observeOutcome("finish", err)
		if err != nil {
			return paymentErrorResponse(c, err)
		}

		log.Info().
			Str("outgoing_payment_id", payment.ID).
			Str("quote_id", payment.QuoteID).
			Msg("Checkout finished")

		return util.ValidateAndReturn(c, http.StatusOK, &types.PaymentFinishResponse{
			OutgoingPayment: payment,
		})
	}
}
