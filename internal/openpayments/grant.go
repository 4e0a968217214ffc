package openpayments

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	accessTypeIncomingPayment = "incoming-payment"
	accessTypeOutgoingPayment = "outgoing-payment"
	accessTypeQuote           = "quote"

	interactModeSPC = "spc"

	incomingPaymentExpiry = 24 * time.Hour
)

// requestIncomingGrant performs Step A's grant half: a non-interactive
// incoming-payment grant against the merchant's authorization server. The
// merchant-side request is expected to come back as a direct grant.
func (c *Checkout) requestIncomingGrant(ctx context.Context, merchant *PartyEndpoint) (*GrantResponse, *SigningContext, error) {
	body := GrantRequest{
		AccessToken: AccessTokenRequest{
			Access: []AccessRequest{
				{
					Type:    accessTypeIncomingPayment,
					Actions: []string{"create", "read", "list", "complete"},
				},
			},
		},
		Client: merchant.Pointer.URL("http"),
	}

	req, err := NewJSONRequest(http.MethodPost, merchant.AuthServerURL, "", body)
	if err != nil {
		return nil, nil, newStepError(StepIncomingGrant, err)
	}

	sc, err := c.delegate.Sign(ctx, req, merchant.Pointer)
	if err != nil {
		return nil, nil, err
	}

	var grant GrantResponse
	if err := doJSON(ctx, c.client, req, StepIncomingGrant, &grant); err != nil {
		return nil, nil, err
	}
	if !grant.Direct() {
		return nil, nil, newStepError(StepIncomingGrant, errors.New("expected a direct grant with an access token"))
	}
	return &grant, sc, nil
}

// createIncomingPayment performs Step A's resource half under the direct
// grant's token. The created resource's id becomes the receiver of the
// later quote. The incoming payment is not rolled back on later failure;
// its own expiry reclaims it.
func (c *Checkout) createIncomingPayment(ctx context.Context, merchant *PartyEndpoint, sc *SigningContext, token string, scaled int64, customerPointer string) (*IncomingPayment, error) {
	body := incomingPaymentRequest{
		IncomingAmount: scaledUSD(scaled),
		ExpiresAt:      time.Now().Add(incomingPaymentExpiry).UTC().Format(time.RFC3339),
		Description:    "Acme Commerce Invoice for " + customerPointer,
	}

	req, err := NewJSONRequest(http.MethodPost, merchant.URL+"/incoming-payments", merchant.LogicalHost, body)
	if err != nil {
		return nil, newStepError(StepIncomingPayment, err)
	}
	req.Header.Set("Authorization", "GNAP "+token)

	if err := sc.Resign(ctx, req); err != nil {
		return nil, err
	}

	var payment IncomingPayment
	if err := doJSON(ctx, c.client, req, StepIncomingPayment, &payment); err != nil {
		return nil, err
	}
	if payment.ID == "" {
		return nil, newStepError(StepIncomingPayment, errors.New("incoming payment has no id"))
	}
	return &payment, nil
}

// requestOutgoingGrant performs Step B: the interactive outgoing-payment
// grant against the customer's authorization server. The response must be a
// pending grant carrying an SPC challenge.
func (c *Checkout) requestOutgoingGrant(ctx context.Context, customer *PartyEndpoint, scaled int64) (*GrantResponse, *SigningContext, error) {
	identifier := customer.Pointer.URL("https")
	body := GrantRequest{
		AccessToken: AccessTokenRequest{
			Access: []AccessRequest{
				{
					Type:    accessTypeQuote,
					Actions: []string{"create", "read"},
				},
				{
					Type:       accessTypeOutgoingPayment,
					Actions:    []string{"create", "read", "list"},
					Identifier: identifier,
					Limits: &Limits{
						SendAmount:    scaledUSD(withSlippage(scaled)),
						ReceiveAmount: scaledUSD(scaled),
					},
				},
			},
		},
		Client:   identifier,
		Interact: &InteractRequest{Start: []string{interactModeSPC}},
	}

	req, err := NewJSONRequest(http.MethodPost, customer.AuthServerURL, "", body)
	if err != nil {
		return nil, nil, newStepError(StepOutgoingGrant, err)
	}

	sc, err := c.delegate.Sign(ctx, req, customer.Pointer)
	if err != nil {
		return nil, nil, err
	}

	var grant GrantResponse
	if err := doJSON(ctx, c.client, req, StepOutgoingGrant, &grant); err != nil {
		return nil, nil, err
	}
	if !grant.Pending() {
		return nil, nil, newStepError(StepOutgoingGrant, errors.New("expected a continuable grant"))
	}
	if grant.Interact == nil || grant.Interact.SPC == nil || grant.Interact.SPC.Challenge == "" {
		return nil, nil, newStepError(StepOutgoingGrant, errors.New("grant carries no spc challenge"))
	}
	return &grant, sc, nil
}

// continueGrant performs Step C: posting the credential assertion to the
// grant's continuation endpoint, authenticated with the continuation token
// issued with the original grant and re-signed with the same signing
// context. Both must be reused verbatim; minting new ones is a protocol
// violation.
func (c *Checkout) continueGrant(ctx context.Context, sc *SigningContext, pending *GrantResponse, credential json.RawMessage) (*GrantResponse, error) {
	if pending == nil || !pending.Pending() {
		return nil, newStepError(StepContinuation, errors.New("grant is not continuable"))
	}

	// continue.uri carries an extra interaction-start path segment that the
	// auth server does not serve continuations under.
	uri := strings.Replace(pending.Continue.URI, "/auth", "", 1)

	req, err := NewJSONRequest(http.MethodPost, uri, "", continueGrantPayload{PublicKeyCred: credential})
	if err != nil {
		return nil, newStepError(StepContinuation, err)
	}
	req.Header.Set("Authorization", "GNAP "+pending.Continue.AccessToken.Value)

	if err := sc.Resign(ctx, req); err != nil {
		return nil, err
	}

	var grant GrantResponse
	if err := doJSON(ctx, c.client, req, StepContinuation, &grant); err != nil {
		return nil, err
	}
	if !grant.Direct() {
		return nil, newStepError(StepContinuation, errors.New("continuation granted no access token"))
	}
	return &grant, nil
}
