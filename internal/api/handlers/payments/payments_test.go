package payments_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acme-commerce/storefront-api/internal/api"
	"github.com/acme-commerce/storefront-api/internal/config"
	"github.com/acme-commerce/storefront-api/internal/test"
	"github.com/acme-commerce/storefront-api/internal/types"
)

func withPaymentsServer(t *testing.T, n *test.PaymentsNetwork, mutate func(cfg *config.Server), closure func(s *api.Server)) {
	t.Helper()

	cfg := test.DefaultTestConfig()
	cfg.Payments = n.PaymentsConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	test.WithTestServerConfigurable(t, cfg, closure)
}

func startPayload(n *test.PaymentsNetwork, amount string) types.PostPaymentStartPayload {
	return types.PostPaymentStartPayload{
		CustomerPaymentPointer: swag.String(n.CustomerPointer()),
		Amount:                 swag.String(amount),
	}
}

func TestPostPaymentStart(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		withPaymentsServer(t, n, nil, func(s *api.Server) {
			res := test.PerformRequest(t, s, "POST", "/payment/start", startPayload(n, "10.00"), nil)
			require.Equal(t, http.StatusOK, res.Code, res.Body.String())

			var response types.PaymentStartResponse
			test.ParseResponseAndValidate(t, res, &response)

			assert.Equal(t, "customer-key-1", response.KeyID)
			assert.Equal(t, n.CustomerSigner.URL, response.SignatureURL)
			assert.Equal(t, "backend", response.CustomerHost)
			assert.Equal(t, "peer-backend", response.MerchantHost)
			assert.Contains(t, response.IncomingPayment.ID, "incoming-payments")
			require.NotNil(t, response.OutgoingPaymentGrantContinue.Continue)
			require.NotNil(t, response.OutgoingPaymentGrantContinue.Interact)
			assert.NotEmpty(t, response.OutgoingPaymentGrantContinue.Interact.SPC.Challenge)

			// The response carries the storefront contract's exact keys.
			var raw map[string]json.RawMessage
			test.ParseResponseBody(t, res, &raw)
			for _, key := range []string{
				"outgoingPaymentGrantContinue", "incomingPayment", "keyId", "signatureUrl",
				"customerPaymentPointerUrl", "merchantPaymentPointerUrl", "merchantHost", "customerHost",
			} {
				assert.Contains(t, raw, key)
			}
		})
	})
}

func TestPostPaymentStartValidation(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		withPaymentsServer(t, n, nil, func(s *api.Server) {
			res := test.PerformRequest(t, s, "POST", "/payment/start", map[string]string{
				"customerPaymentPointer": n.CustomerPointer(),
			}, nil)
			assert.Equal(t, http.StatusBadRequest, res.Code, res.Body.String())
			assert.Equal(t, 0, n.GrantCount())
		})
	})
}

func TestPostPaymentStartInvalidAmount(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		withPaymentsServer(t, n, nil, func(s *api.Server) {
			res := test.PerformRequest(t, s, "POST", "/payment/start", startPayload(n, "ten"), nil)
			require.Equal(t, http.StatusBadRequest, res.Code, res.Body.String())

			var response types.PublicHTTPError
			test.ParseResponseBody(t, res, &response)
			assert.Equal(t, "Amount is not a valid decimal number.", swag.StringValue(response.Title))
			assert.Equal(t, 0, n.GrantCount())
		})
	})
}

func TestPostPaymentStartNoMerchantPointer(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		withPaymentsServer(t, n, func(cfg *config.Server) {
			cfg.Payments.MerchantPaymentPointer = ""
		}, func(s *api.Server) {
			res := test.PerformRequest(t, s, "POST", "/payment/start", startPayload(n, "10.00"), nil)
			require.Equal(t, http.StatusInternalServerError, res.Code, res.Body.String())

			var response types.PaymentErrorResponse
			test.ParseResponseBody(t, res, &response)
			assert.Equal(t, "no merchant payment pointer", response.Error)

			// The failure happens before any upstream call.
			assert.Equal(t, 0, n.GrantCount())
		})
	})
}

func TestPostPaymentStartUpstreamFailure(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		n.FailMerchantJWKS = true
		withPaymentsServer(t, n, nil, func(s *api.Server) {
			res := test.PerformRequest(t, s, "POST", "/payment/start", startPayload(n, "10.00"), nil)
			require.Equal(t, http.StatusInternalServerError, res.Code, res.Body.String())

			var response types.PaymentErrorResponse
			test.ParseResponseBody(t, res, &response)
			assert.Equal(t, "error fetching the client's keys", response.Error)
			assert.Equal(t, 0, n.GrantCount())
		})
	})
}

func TestPostPaymentFinish(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		withPaymentsServer(t, n, nil, func(s *api.Server) {
			res := test.PerformRequest(t, s, "POST", "/payment/start", startPayload(n, "10.00"), nil)
			require.Equal(t, http.StatusOK, res.Code, res.Body.String())

			var start types.PaymentStartResponse
			test.ParseResponseAndValidate(t, res, &start)

			finish := types.PostPaymentFinishPayload{
				Credential:                   json.RawMessage(`{"id":"cred-1","type":"public-key"}`),
				KeyID:                        swag.String(start.KeyID),
				SignatureURL:                 swag.String(start.SignatureURL),
				IncomingPayment:              start.IncomingPayment,
				OutgoingPaymentGrantContinue: start.OutgoingPaymentGrantContinue,
				CustomerPaymentPointerURL:    swag.String(start.CustomerPaymentPointerURL),
				CustomerHost:                 swag.String(start.CustomerHost),
				MerchantHost:                 swag.String(start.MerchantHost),
			}

			res = test.PerformRequest(t, s, "POST", "/payment/finish", finish, nil)
			require.Equal(t, http.StatusOK, res.Code, res.Body.String())

			var response types.PaymentFinishResponse
			test.ParseResponseAndValidate(t, res, &response)
			assert.NotEmpty(t, response.OutgoingPayment.ID)
			assert.Contains(t, response.OutgoingPayment.QuoteID, "quotes")

			assert.Equal(t, 1, n.ContinueCount())

			// A replayed finish is rejected upstream, not deduplicated.
			res = test.PerformRequest(t, s, "POST", "/payment/finish", finish, nil)
			require.Equal(t, http.StatusInternalServerError, res.Code, res.Body.String())

			var errResponse types.PaymentErrorResponse
			test.ParseResponseBody(t, res, &errResponse)
			assert.Equal(t, "error continuing outgoing payment grant", errResponse.Error)
		})
	})
}

func TestPostPaymentFinishValidation(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		withPaymentsServer(t, n, nil, func(s *api.Server) {
			res := test.PerformRequest(t, s, "POST", "/payment/finish", map[string]string{}, nil)
			assert.Equal(t, http.StatusBadRequest, res.Code, res.Body.String())
			assert.Equal(t, 0, n.ContinueCount())
		})
	})
}

func TestPaymentRoutesDisabled(t *testing.T) {
	test.WithPaymentsNetwork(t, func(n *test.PaymentsNetwork) {
		withPaymentsServer(t, n, func(cfg *config.Server) {
			cfg.Payments.InteractiveCheckoutEnabled = false
		}, func(s *api.Server) {
			res := test.PerformRequest(t, s, "POST", "/payment/start", startPayload(n, "10.00"), nil)
			assert.Equal(t, http.StatusNotFound, res.Code, res.Body.String())
		})
	})
}
