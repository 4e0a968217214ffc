package openpayments

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

const outgoingPaymentDescription = "Your purchase at Acme Commerce"

// createQuote prices the payment towards the incoming payment's id. The
// call mutates upstream state and is attempted exactly once.
func (c *Checkout) createQuote(ctx context.Context, sc *SigningContext, customerURL, customerHost, token, receiver string) (*Quote, error) {
	req, err := NewJSONRequest(http.MethodPost, customerURL+"/quotes", customerHost, quoteRequest{Receiver: receiver})
	if err != nil {
		return nil, newStepError(StepQuote, err)
	}
	req.Header.Set("Authorization", "GNAP "+token)

	if err := sc.Resign(ctx, req); err != nil {
		return nil, err
	}

	var quote Quote
	if err := doJSON(ctx, c.client, req, StepQuote, &quote); err != nil {
		return nil, err
	}
	if quote.ID == "" {
		return nil, newStepError(StepQuote, errors.New("quote has no id"))
	}
	return &quote, nil
}

// createOutgoingPayment executes the payment against the quote. Terminal
// artifact of the transaction; attempted exactly once.
func (c *Checkout) createOutgoingPayment(ctx context.Context, sc *SigningContext, customerURL, customerHost, token, quoteID string) (*OutgoingPayment, error) {
	body := outgoingPaymentRequest{
		QuoteID:     quoteID,
		Description: outgoingPaymentDescription,
	}

	req, err := NewJSONRequest(http.MethodPost, customerURL+"/outgoing-payments", customerHost, body)
	if err != nil {
		return nil, newStepError(StepOutgoingPayment, err)
	}
	req.Header.Set("Authorization", "GNAP "+token)

	if err := sc.Resign(ctx, req); err != nil {
		return nil, err
	}

	var payment OutgoingPayment
	if err := doJSON(ctx, c.client, req, StepOutgoingPayment, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}
