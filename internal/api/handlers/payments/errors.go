package payments

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/acme-commerce/storefront-api/internal/api/httperrors"
	"github.com/acme-commerce/storefront-api/internal/openpayments"
	"github.com/acme-commerce/storefront-api/internal/types"
	"github.com/acme-commerce/storefront-api/internal/util"
)

// observeOutcome counts the attempt, labelling failures with the failing
// step where one is known.
func observeOutcome(phase string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if step := openpayments.StepOf(err); step != "" {
			outcome = string(step)
		}
	}
	checkoutOutcomes.WithLabelValues(phase, outcome).Inc()
}

// paymentErrorResponse maps a checkout failure to the boundary contract: a
// 500 with one short human-readable string naming the failing step. Upstream
// payloads and stacks stay in the logs.
func paymentErrorResponse(c echo.Context, err error) error {
	log := util.LogFromEchoContext(c)

	var stepErr *openpayments.StepError
	switch {
	case errors.Is(err, openpayments.ErrInvalidAmount):
		return httperrors.ErrBadRequestInvalidAmount
	case errors.Is(err, openpayments.ErrNoMerchantPointer):
		log.Error().Msg("Merchant payment pointer not configured")
		return c.JSON(http.StatusInternalServerError, types.PaymentErrorResponse{Error: "no merchant payment pointer"})
	case errors.As(err, &stepErr):
		log.Error().Err(err).Str("step", string(stepErr.Step)).Msg("Checkout step failed")
		return c.JSON(http.StatusInternalServerError, types.PaymentErrorResponse{Error: stepErr.PublicMessage()})
	default:
		log.Error().Err(err).Msg("Checkout failed")
		return c.JSON(http.StatusInternalServerError, types.PaymentErrorResponse{Error: "payment failed"})
	}
}
