package openpayments_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acme-commerce/storefront-api/internal/openpayments"
	"github.com/acme-commerce/storefront-api/internal/openpayments/spc"
	"github.com/acme-commerce/storefront-api/internal/test"
)

func newTestCheckout(n *test.PaymentsNetwork) *openpayments.Checkout {
	cfg := n.PaymentsConfig()
	return openpayments.NewCheckout(openpayments.Config{
		MerchantPaymentPointer: cfg.MerchantPaymentPointer,
		Addresses:              cfg.AddressMap,
		AuthAddresses:          cfg.AuthAddressMap,
		SigningAuthorities:     cfg.SigningAuthorities,
	})
}

type grantBody struct {
	AccessToken struct {
		Access []struct {
			Type       string `json:"type"`
			Actions    []string `json:"actions"`
			Identifier string `json:"identifier"`
			Limits     *struct {
				SendAmount    *openpayments.Amount `json:"sendAmount"`
				ReceiveAmount *openpayments.Amount `json:"receiveAmount"`
			} `json:"limits"`
		} `json:"access"`
	} `json:"access_token"`
	Client   string `json:"client"`
	Interact *struct {
		Start []string `json:"start"`
	} `json:"interact"`
}

func TestCheckoutStart(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		checkout := newTestCheckout(n)

		start, err := checkout.Start(t.Context(), openpayments.StartParams{
			CustomerPaymentPointer: n.CustomerPointer(),
			Amount:                 "10.00",
		})
		require.NoError(t, err)

		require.NotNil(t, start.IncomingPayment)
		assert.Contains(t, start.IncomingPayment.ID, "http://peer-backend/incoming-payments/")
		assert.Equal(t, "customer-key-1", start.KeyID)
		assert.Equal(t, n.CustomerSigner.URL, start.SignatureURL)
		assert.Equal(t, "backend", start.CustomerHost)
		assert.Equal(t, "peer-backend", start.MerchantHost)
		require.NotNil(t, start.OutgoingPaymentGrantContinue.Interact)
		require.NotNil(t, start.OutgoingPaymentGrantContinue.Interact.SPC)
		assert.NotEmpty(t, start.OutgoingPaymentGrantContinue.Interact.SPC.Challenge)
		assert.NotEmpty(t, start.OutgoingPaymentGrantContinue.Interact.SPC.CredentialIDs)

		// One incoming grant on the merchant side, one outgoing grant on
		// the customer side, no continuation yet.
		require.Equal(t, 2, n.GrantCount())
		assert.Equal(t, 0, n.ContinueCount())

		// The incoming payment carries the scaled amount.
		require.Len(t, n.IncomingPaymentRequests, 1)
		var incoming struct {
			IncomingAmount *openpayments.Amount `json:"incomingAmount"`
			Description    string               `json:"description"`
			ExpiresAt      string               `json:"expiresAt"`
		}
		n.IncomingPaymentRequests[0].Unmarshal(t, &incoming)
		require.NotNil(t, incoming.IncomingAmount)
		assert.Equal(t, "1000", incoming.IncomingAmount.Value)
		assert.Equal(t, "USD", incoming.IncomingAmount.AssetCode)
		assert.Equal(t, 2, incoming.IncomingAmount.AssetScale)
		assert.Equal(t, "Acme Commerce Invoice for "+n.CustomerPointer(), incoming.Description)
		assert.NotEmpty(t, incoming.ExpiresAt)

		// The outgoing grant asks for quote and outgoing-payment access
		// with the slippage-inflated send limit.
		var outgoing grantBody
		n.GrantRequests[1].Unmarshal(t, &outgoing)
		require.Len(t, outgoing.AccessToken.Access, 2)
		assert.Equal(t, "quote", outgoing.AccessToken.Access[0].Type)
		op := outgoing.AccessToken.Access[1]
		assert.Equal(t, "outgoing-payment", op.Type)
		assert.Equal(t, "https://backend/accounts/gfranklin", op.Identifier)
		require.NotNil(t, op.Limits)
		assert.Equal(t, "1100", op.Limits.SendAmount.Value)
		assert.Equal(t, "1000", op.Limits.ReceiveAmount.Value)
		assert.Equal(t, "https://backend/accounts/gfranklin", outgoing.Client)
		require.NotNil(t, outgoing.Interact)
		assert.Equal(t, []string{"spc"}, outgoing.Interact.Start)

		// The incoming grant identifies the merchant as the client.
		var incomingGrant grantBody
		n.GrantRequests[0].Unmarshal(t, &incomingGrant)
		assert.Equal(t, "http://peer-backend/accounts/acme", incomingGrant.Client)

		// Resource requests were signed over their virtualized URLs, not
		// the concrete test-server addresses.
		assert.Contains(t, n.SignedURLs, "http://peer-backend/accounts/acme/incoming-payments")
	})
}

func TestCheckoutFinish(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		checkout := newTestCheckout(n)

		start, err := checkout.Start(t.Context(), openpayments.StartParams{
			CustomerPaymentPointer: n.CustomerPointer(),
			Amount:                 "10.00",
		})
		require.NoError(t, err)

		payment, err := checkout.Finish(t.Context(), openpayments.FinishParams{
			Credential:                   json.RawMessage(`{"id":"cred-1","type":"public-key"}`),
			KeyID:                        start.KeyID,
			SignatureURL:                 start.SignatureURL,
			IncomingPayment:              start.IncomingPayment,
			OutgoingPaymentGrantContinue: start.OutgoingPaymentGrantContinue,
			CustomerPaymentPointerURL:    start.CustomerPaymentPointerURL,
			CustomerHost:                 start.CustomerHost,
			MerchantHost:                 start.MerchantHost,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, n.ContinueCount())

		// The quote is priced towards the incoming payment and the
		// outgoing payment executes that quote.
		require.Len(t, n.QuoteRequests, 1)
		var quote struct {
			Receiver string `json:"receiver"`
		}
		n.QuoteRequests[0].Unmarshal(t, &quote)
		assert.Equal(t, start.IncomingPayment.ID, quote.Receiver)

		require.Len(t, n.OutgoingPaymentRequests, 1)
		var op struct {
			QuoteID     string `json:"quoteId"`
			Description string `json:"description"`
		}
		n.OutgoingPaymentRequests[0].Unmarshal(t, &op)
		assert.Contains(t, op.QuoteID, "http://backend/quotes/")
		assert.Equal(t, "Your purchase at Acme Commerce", op.Description)

		assert.Equal(t, op.QuoteID, payment.QuoteID)
		require.NotNil(t, payment.ReceiveAmount)
		assert.Equal(t, "1000", payment.ReceiveAmount.Value)

		// Follow-up requests were signed over logical-host URLs.
		assert.Contains(t, n.SignedURLs, "http://backend/accounts/gfranklin/quotes")
		assert.Contains(t, n.SignedURLs, "http://backend/accounts/gfranklin/outgoing-payments")
	})
}

func TestCheckoutFinishNotRepeatable(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		checkout := newTestCheckout(n)

		start, err := checkout.Start(t.Context(), openpayments.StartParams{
			CustomerPaymentPointer: n.CustomerPointer(),
			Amount:                 "10.00",
		})
		require.NoError(t, err)

		params := openpayments.FinishParams{
			Credential:                   json.RawMessage(`{"id":"cred-1"}`),
			KeyID:                        start.KeyID,
			SignatureURL:                 start.SignatureURL,
			IncomingPayment:              start.IncomingPayment,
			OutgoingPaymentGrantContinue: start.OutgoingPaymentGrantContinue,
			CustomerPaymentPointerURL:    start.CustomerPaymentPointerURL,
			CustomerHost:                 start.CustomerHost,
			MerchantHost:                 start.MerchantHost,
		}

		_, err = checkout.Finish(t.Context(), params)
		require.NoError(t, err)

		// The continuation is one-shot upstream; a second finish fails.
		_, err = checkout.Finish(t.Context(), params)
		require.Error(t, err)
		assert.Equal(t, openpayments.StepContinuation, openpayments.StepOf(err))
		assert.Equal(t, 2, n.ContinueCount())
	})
}

func TestCheckoutRun(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		checkout := newTestCheckout(n)
		confirmer := &spc.Static{}

		payment, err := checkout.Run(t.Context(), openpayments.StartParams{
			CustomerPaymentPointer: n.CustomerPointer(),
			Amount:                 "10.00",
		}, confirmer)
		require.NoError(t, err)

		assert.NotEmpty(t, payment.ID)
		assert.Equal(t, 1, n.ContinueCount())
		assert.Equal(t, []bool{true}, confirmer.Outcomes)
	})
}

func TestCheckoutRunCancelled(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		checkout := newTestCheckout(n)
		confirmer := &spc.Static{Cancel: true}

		_, err := checkout.Run(t.Context(), openpayments.StartParams{
			CustomerPaymentPointer: n.CustomerPointer(),
			Amount:                 "10.00",
		}, confirmer)
		require.ErrorIs(t, err, openpayments.ErrInteractionCancelled)

		// A declined ceremony never reaches the continuation endpoint; the
		// grants from the start half stand but stay pending.
		assert.Equal(t, 2, n.GrantCount())
		assert.Equal(t, 0, n.ContinueCount())
		assert.Empty(t, confirmer.Outcomes)
	})
}

func TestCheckoutStartKeyDiscoveryFailure(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		n.FailMerchantJWKS = true
		checkout := newTestCheckout(n)

		_, err := checkout.Start(t.Context(), openpayments.StartParams{
			CustomerPaymentPointer: n.CustomerPointer(),
			Amount:                 "10.00",
		})
		require.Error(t, err)
		assert.Equal(t, openpayments.StepKeyDiscovery, openpayments.StepOf(err))

		// The grant request is never sent without signature headers.
		assert.Equal(t, 0, n.GrantCount())
		assert.Equal(t, 0, len(n.IncomingPaymentRequests))
	})
}

func TestCheckoutStartUnknownSigningAuthority(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		cfg := n.PaymentsConfig()
		delete(cfg.SigningAuthorities, "peer-backend")
		checkout := openpayments.NewCheckout(openpayments.Config{
			MerchantPaymentPointer: cfg.MerchantPaymentPointer,
			Addresses:              cfg.AddressMap,
			AuthAddresses:          cfg.AuthAddressMap,
			SigningAuthorities:     cfg.SigningAuthorities,
		})

		_, err := checkout.Start(t.Context(), openpayments.StartParams{
			CustomerPaymentPointer: n.CustomerPointer(),
			Amount:                 "10.00",
		})
		require.Error(t, err)
		assert.Equal(t, openpayments.StepKeyDiscovery, openpayments.StepOf(err))
		assert.Equal(t, 0, n.GrantCount())
	})
}

func TestCheckoutStartNoMerchantPointer(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		cfg := n.PaymentsConfig()
		checkout := openpayments.NewCheckout(openpayments.Config{
			MerchantPaymentPointer: "",
			Addresses:              cfg.AddressMap,
			AuthAddresses:          cfg.AuthAddressMap,
			SigningAuthorities:     cfg.SigningAuthorities,
		})

		_, err := checkout.Start(t.Context(), openpayments.StartParams{
			CustomerPaymentPointer: n.CustomerPointer(),
			Amount:                 "10.00",
		})
		require.ErrorIs(t, err, openpayments.ErrNoMerchantPointer)
		assert.Equal(t, 0, n.GrantCount())
	})
}

func TestCheckoutStartInvalidAmount(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		checkout := newTestCheckout(n)

		_, err := checkout.Start(t.Context(), openpayments.StartParams{
			CustomerPaymentPointer: n.CustomerPointer(),
			Amount:                 "ten dollars",
		})
		require.ErrorIs(t, err, openpayments.ErrInvalidAmount)
		assert.Equal(t, 0, n.GrantCount())
	})
}
