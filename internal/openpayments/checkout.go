package openpayments

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/acme-commerce/storefront-api/internal/openpayments/spc"
)

// State is the checkout attempt's position in the grant negotiation. All
// steps are strictly sequential; each state's artifact is a precondition
// for the next.
type State string

const (
	StateInitiated                State = "initiated"
	StateIncomingGrantRequested   State = "incoming-grant-requested"
	StateIncomingGrantObtained    State = "incoming-grant-obtained"
	StateIncomingPaymentCreated   State = "incoming-payment-created"
	StateOutgoingGrantRequested   State = "outgoing-grant-requested"
	StateAwaitingUserInteraction  State = "awaiting-user-interaction"
	StateOutgoingGrantContinuable State = "outgoing-grant-continuable"
	StateOutgoingGrantFinished    State = "outgoing-grant-finished"
	StateAborted                  State = "aborted"
)

// Config carries the deployment topology and trust configuration of the
// checkout core. All of it is read-only after construction, so concurrent
// checkout attempts share it without locking.
type Config struct {
	MerchantPaymentPointer string
	Addresses              map[string]string
	AuthAddresses          map[string]string
	SigningAuthorities     map[string]string
	HTTPClient             *http.Client
}

// Checkout orchestrates one four-party payment authorization per call. It
// holds no per-transaction state; everything an attempt produces is either
// returned to the caller or discarded.
type Checkout struct {
	merchantPointer string
	addresses       *AddressMap
	resolver        *Resolver
	delegate        *Delegate
	client          *http.Client
}

func NewCheckout(cfg Config) *Checkout {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	addresses := NewAddressMap(cfg.Addresses)
	authAddresses := NewAddressMap(cfg.AuthAddresses)

	return &Checkout{
		merchantPointer: cfg.MerchantPaymentPointer,
		addresses:       addresses,
		resolver:        NewResolver(addresses, authAddresses, client),
		delegate:        NewDelegate(cfg.SigningAuthorities, addresses, client),
		client:          client,
	}
}

// Addresses exposes the translation table for rebuilding signing contexts.
func (c *Checkout) Addresses() *AddressMap {
	return c.addresses
}

// HTTPClient exposes the shared outbound client.
func (c *Checkout) HTTPClient() *http.Client {
	return c.client
}

type StartParams struct {
	CustomerPaymentPointer string
	Amount                 string
}

// StartResult is everything the interaction side needs to run the
// confirmation ceremony and everything the finish half needs to resume the
// grant: the pending grant, the incoming payment, and the signing context
// identifiers that must be reused verbatim.
type StartResult struct {
	OutgoingPaymentGrantContinue *GrantResponse
	IncomingPayment              *IncomingPayment
	KeyID                        string
	SignatureURL                 string
	CustomerPaymentPointerURL    string
	MerchantPaymentPointerURL    string
	MerchantHost                 string
	CustomerHost                 string
}

type FinishParams struct {
	Credential                   json.RawMessage
	KeyID                        string
	SignatureURL                 string
	IncomingPayment              *IncomingPayment
	OutgoingPaymentGrantContinue *GrantResponse
	CustomerPaymentPointerURL    string
	CustomerHost                 string
	MerchantHost                 string
}

// Start runs the non-interactive half of a checkout attempt: resolve both
// parties, obtain the merchant's incoming-payment grant, create the
// incoming payment, and request the customer's interactive outgoing-payment
// grant. It leaves the attempt in AwaitingUserInteraction.
func (c *Checkout) Start(ctx context.Context, params StartParams) (*StartResult, error) {
	if c.merchantPointer == "" {
		return nil, ErrNoMerchantPointer
	}
	scaled, err := scaledAmount(params.Amount)
	if err != nil {
		return nil, err
	}

	f := newFlow(ctx)

	customer, err := c.resolver.Resolve(ctx, params.CustomerPaymentPointer)
	if err != nil {
		return nil, f.abort(err)
	}
	merchant, err := c.resolver.Resolve(ctx, c.merchantPointer)
	if err != nil {
		return nil, f.abort(err)
	}

	f.advance(StateIncomingGrantRequested)
	incomingGrant, merchantSigning, err := c.requestIncomingGrant(ctx, merchant)
	if err != nil {
		return nil, f.abort(err)
	}
	f.advance(StateIncomingGrantObtained)

	incomingPayment, err := c.createIncomingPayment(ctx, merchant, merchantSigning, incomingGrant.AccessToken.Value, scaled, params.CustomerPaymentPointer)
	if err != nil {
		return nil, f.abort(err)
	}
	f.advance(StateIncomingPaymentCreated)

	f.advance(StateOutgoingGrantRequested)
	outgoingGrant, customerSigning, err := c.requestOutgoingGrant(ctx, customer, scaled)
	if err != nil {
		return nil, f.abort(err)
	}
	f.advance(StateAwaitingUserInteraction)

	return &StartResult{
		OutgoingPaymentGrantContinue: outgoingGrant,
		IncomingPayment:              incomingPayment,
		KeyID:                        customerSigning.KeyID,
		SignatureURL:                 customerSigning.SignatureURL,
		CustomerPaymentPointerURL:    customer.URL,
		MerchantPaymentPointerURL:    merchant.URL,
		MerchantHost:                 merchant.LogicalHost,
		CustomerHost:                 customer.LogicalHost,
	}, nil
}

// Finish runs the post-interaction half: continue the outgoing grant with
// the credential assertion, then quote and execute the payment. The signing
// context identifiers from Start are rebuilt, never re-derived.
func (c *Checkout) Finish(ctx context.Context, params FinishParams) (*OutgoingPayment, error) {
	f := newFlow(ctx)
	f.state = StateOutgoingGrantContinuable

	sc := NewSigningContext(params.SignatureURL, params.KeyID, c.addresses, c.client)

	grant, err := c.continueGrant(ctx, sc, params.OutgoingPaymentGrantContinue, params.Credential)
	if err != nil {
		return nil, f.abort(err)
	}
	f.advance(StateOutgoingGrantFinished)

	quote, err := c.createQuote(ctx, sc, params.CustomerPaymentPointerURL, params.CustomerHost, grant.AccessToken.Value, params.IncomingPayment.ID)
	if err != nil {
		return nil, f.abort(err)
	}

	payment, err := c.createOutgoingPayment(ctx, sc, params.CustomerPaymentPointerURL, params.CustomerHost, grant.AccessToken.Value, quote.ID)
	if err != nil {
		return nil, f.abort(err)
	}
	return payment, nil
}

// Run drives a complete checkout attempt through an in-process confirmation
// bridge: start, ceremony, finish. A cancelled ceremony ends the attempt
// with ErrInteractionCancelled and no continuation is sent. The ceremony is
// always told the final outcome.
func (c *Checkout) Run(ctx context.Context, params StartParams, confirmer spc.Confirmer) (*OutgoingPayment, error) {
	start, err := c.Start(ctx, params)
	if err != nil {
		return nil, err
	}

	challenge := start.OutgoingPaymentGrantContinue.Interact.SPC

	ceremonyCtx, cancel := context.WithTimeout(ctx, spc.CeremonyTimeout)
	defer cancel()

	ceremony, err := confirmer.Confirm(ceremonyCtx, spc.Prompt{
		Challenge:     challenge.Challenge,
		CredentialIDs: challenge.CredentialIDs,
		Amount:        params.Amount,
		PayeeLabel:    c.merchantPointer,
	})
	if err != nil {
		// Cancellation and ceremony timeout are a decline, not a failure.
		return nil, ErrInteractionCancelled
	}

	payment, err := c.Finish(ctx, FinishParams{
		Credential:                   ceremony.Assertion,
		KeyID:                        start.KeyID,
		SignatureURL:                 start.SignatureURL,
		IncomingPayment:              start.IncomingPayment,
		OutgoingPaymentGrantContinue: start.OutgoingPaymentGrantContinue,
		CustomerPaymentPointerURL:    start.CustomerPaymentPointerURL,
		CustomerHost:                 start.CustomerHost,
		MerchantHost:                 start.MerchantHost,
	})
	ceremony.Complete(err == nil)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// flow tracks and logs the state machine of one attempt.
type flow struct {
	state State
	log   *zerolog.Logger
}

func newFlow(ctx context.Context) *flow {
	return &flow{state: StateInitiated, log: zerolog.Ctx(ctx)}
}

func (f *flow) advance(next State) {
	f.log.Debug().Str("from", string(f.state)).Str("to", string(next)).Msg("Checkout state transition")
	f.state = next
}

func (f *flow) abort(err error) error {
	f.log.Warn().Err(err).Str("from", string(f.state)).Str("step", string(StepOf(err))).Msg("Checkout aborted")
	f.state = StateAborted
	return err
}
