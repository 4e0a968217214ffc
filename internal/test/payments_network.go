package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/acme-commerce/storefront-api/internal/config"
)

// RecordedRequest is one upstream call captured by the payments network.
type RecordedRequest struct {
	Method        string
	Path          string
	Host          string
	Authorization string
	Body          json.RawMessage
}

// Unmarshal decodes the recorded body into v.
func (r RecordedRequest) Unmarshal(t *testing.T, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("failed to unmarshal recorded request body %s: %v", r.Body, err)
	}
}

// PaymentsNetwork is an in-process open-payments topology: the customer's
// and the merchant's resource backends, their authorization servers and one
// signature service per party. Backends are reached by concrete test-server
// URLs while routing on logical hostnames, so the fixture exercises the
// same address translation a virtually-routed deployment does.
//
// Logical hosts: the customer lives on "backend" behind the "auth"
// authorization server, the merchant on "peer-backend" behind "peer-auth".
type PaymentsNetwork struct {
	CustomerBackend *httptest.Server
	MerchantBackend *httptest.Server
	CustomerAuth    *httptest.Server
	MerchantAuth    *httptest.Server
	CustomerSigner  *httptest.Server
	MerchantSigner  *httptest.Server

	// Failure knobs, set before the call under test.
	FailCustomerJWKS bool
	FailMerchantJWKS bool
	RejectContinue   bool

	mu sync.Mutex

	// Requests recorded per concern, in arrival order.
	GrantRequests           []RecordedRequest
	ContinueRequests        []RecordedRequest
	IncomingPaymentRequests []RecordedRequest
	QuoteRequests           []RecordedRequest
	OutgoingPaymentRequests []RecordedRequest

	// SignedURLs are the request URLs the signature services were asked to
	// sign, in order.
	SignedURLs []string

	usedContinues      map[string]bool
	lastIncomingAmount json.RawMessage
	counter            int
}

const (
	customerLogicalHost = "backend"
	merchantLogicalHost = "peer-backend"

	customerAccountPath = "/accounts/gfranklin"
	merchantAccountPath = "/accounts/acme"

	continueToken = "continue-token"
	incomingToken = "incoming-access-token"
	outgoingToken = "outgoing-access-token"

	spcChallenge   = "dGVzdC1jaGFsbGVuZ2U"
	spcCredential  = "Y3JlZC0x"
	customerKeyID  = "customer-key-1"
	merchantKeyID  = "merchant-key-1"
	signatureValue = "sig1=:dGVzdA==:"
)

// WithPaymentsNetwork starts the fixture, hands it to the closure and tears
// all six servers down afterwards.
func WithPaymentsNetwork(t *testing.T, closure func(n *PaymentsNetwork)) {
	t.Helper()

	n := &PaymentsNetwork{usedContinues: map[string]bool{}}

	n.CustomerSigner = httptest.NewServer(n.signerHandler())
	n.MerchantSigner = httptest.NewServer(n.signerHandler())
	n.CustomerAuth = httptest.NewServer(http.HandlerFunc(n.customerAuthHandler))
	n.MerchantAuth = httptest.NewServer(http.HandlerFunc(n.merchantAuthHandler))
	n.CustomerBackend = httptest.NewServer(http.HandlerFunc(n.customerBackendHandler))
	n.MerchantBackend = httptest.NewServer(http.HandlerFunc(n.merchantBackendHandler))

	defer n.CustomerSigner.Close()
	defer n.MerchantSigner.Close()
	defer n.CustomerAuth.Close()
	defer n.MerchantAuth.Close()
	defer n.CustomerBackend.Close()
	defer n.MerchantBackend.Close()

	closure(n)
}

// PaymentsConfig returns the payments config pointing the checkout core at
// this network.
func (n *PaymentsNetwork) PaymentsConfig() config.PaymentsServer {
	return config.PaymentsServer{
		MerchantPaymentPointer:     n.MerchantPointer(),
		InteractiveCheckoutEnabled: true,
		AddressMap: map[string]string{
			customerLogicalHost: n.CustomerBackend.URL,
			merchantLogicalHost: n.MerchantBackend.URL,
		},
		AuthAddressMap: map[string]string{
			"auth":      n.CustomerAuth.URL,
			"peer-auth": n.MerchantAuth.URL,
		},
		SigningAuthorities: map[string]string{
			customerLogicalHost: n.CustomerSigner.URL,
			merchantLogicalHost: n.MerchantSigner.URL,
		},
	}
}

func (n *PaymentsNetwork) CustomerPointer() string {
	return "$" + customerLogicalHost + customerAccountPath
}

func (n *PaymentsNetwork) MerchantPointer() string {
	return "$" + merchantLogicalHost + merchantAccountPath
}

// GrantCount returns how many grant requests reached either auth server.
func (n *PaymentsNetwork) GrantCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.GrantRequests)
}

func (n *PaymentsNetwork) ContinueCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.ContinueRequests)
}

func (n *PaymentsNetwork) record(target *[]RecordedRequest, r *http.Request) RecordedRequest {
	var body json.RawMessage
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	rec := RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Host:          r.Host,
		Authorization: r.Header.Get("Authorization"),
		Body:          body,
	}
	n.mu.Lock()
	*target = append(*target, rec)
	n.mu.Unlock()
	return rec
}

func (n *PaymentsNetwork) nextID() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.counter++
	return n.counter
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// signerHandler answers signature requests with static message-signature
// headers and records the URL each signature was computed over.
func (n *PaymentsNetwork) signerHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			KeyID   string `json:"keyId"`
			Request struct {
				URL string `json:"url"`
			} `json:"request"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.KeyID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid signature request"})
			return
		}
		n.mu.Lock()
		n.SignedURLs = append(n.SignedURLs, payload.Request.URL)
		n.mu.Unlock()

		writeJSON(w, http.StatusOK, map[string]string{
			"Signature":       signatureValue,
			"Signature-Input": `sig1=("@method" "@target-uri");keyid="` + payload.KeyID + `"`,
		})
	})
}

func (n *PaymentsNetwork) customerBackendHandler(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == customerAccountPath:
		writeJSON(w, http.StatusOK, map[string]string{"authServer": "http://auth"})

	case r.Method == http.MethodGet && r.URL.Path == customerAccountPath+"/jwks.json":
		if n.FailCustomerJWKS {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "key store unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"keys": []map[string]string{{"kid": customerKeyID}},
		})

	case r.Method == http.MethodPost && r.URL.Path == customerAccountPath+"/quotes":
		rec := n.record(&n.QuoteRequests, r)
		if rec.Authorization != "GNAP "+outgoingToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid access token"})
			return
		}
		var body struct {
			Receiver string `json:"receiver"`
		}
		_ = json.Unmarshal(rec.Body, &body)

		n.mu.Lock()
		receiveAmount := n.lastIncomingAmount
		n.mu.Unlock()

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"id":            fmt.Sprintf("http://%s/quotes/%d", customerLogicalHost, n.nextID()),
			"receiver":      body.Receiver,
			"receiveAmount": receiveAmount,
		})

	case r.Method == http.MethodPost && r.URL.Path == customerAccountPath+"/outgoing-payments":
		rec := n.record(&n.OutgoingPaymentRequests, r)
		if rec.Authorization != "GNAP "+outgoingToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid access token"})
			return
		}
		var body struct {
			QuoteID     string `json:"quoteId"`
			Description string `json:"description"`
		}
		_ = json.Unmarshal(rec.Body, &body)

		n.mu.Lock()
		receiveAmount := n.lastIncomingAmount
		n.mu.Unlock()

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"id":            fmt.Sprintf("http://%s/outgoing-payments/%d", customerLogicalHost, n.nextID()),
			"quoteId":       body.QuoteID,
			"description":   body.Description,
			"receiveAmount": receiveAmount,
		})

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (n *PaymentsNetwork) merchantBackendHandler(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == merchantAccountPath:
		writeJSON(w, http.StatusOK, map[string]string{"authServer": "http://peer-auth"})

	case r.Method == http.MethodGet && r.URL.Path == merchantAccountPath+"/jwks.json":
		if n.FailMerchantJWKS {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "key store unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"keys": []map[string]string{{"kid": merchantKeyID}},
		})

	case r.Method == http.MethodPost && r.URL.Path == merchantAccountPath+"/incoming-payments":
		rec := n.record(&n.IncomingPaymentRequests, r)
		if rec.Authorization != "GNAP "+incomingToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid access token"})
			return
		}
		var body struct {
			IncomingAmount json.RawMessage `json:"incomingAmount"`
			ExpiresAt      string          `json:"expiresAt"`
			Description    string          `json:"description"`
		}
		_ = json.Unmarshal(rec.Body, &body)

		n.mu.Lock()
		n.lastIncomingAmount = body.IncomingAmount
		n.mu.Unlock()

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"id":             fmt.Sprintf("http://%s/incoming-payments/%d", merchantLogicalHost, n.nextID()),
			"incomingAmount": body.IncomingAmount,
			"expiresAt":      body.ExpiresAt,
			"description":    body.Description,
		})

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

// merchantAuthHandler issues direct incoming-payment grants.
func (n *PaymentsNetwork) merchantAuthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	n.record(&n.GrantRequests, r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": map[string]string{"value": incomingToken},
	})
}

// customerAuthHandler issues pending outgoing-payment grants and serves
// their one-shot continuations.
func (n *PaymentsNetwork) customerAuthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	if strings.HasPrefix(r.URL.Path, "/continue/") {
		rec := n.record(&n.ContinueRequests, r)
		if n.RejectContinue {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "continuation rejected"})
			return
		}
		if rec.Authorization != "GNAP "+continueToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid continuation token"})
			return
		}

		id := strings.TrimPrefix(r.URL.Path, "/continue/")
		n.mu.Lock()
		used := n.usedContinues[id]
		n.usedContinues[id] = true
		n.mu.Unlock()
		if used {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "grant already continued"})
			return
		}

		var body struct {
			PublicKeyCred json.RawMessage `json:"public_key_cred"`
		}
		_ = json.Unmarshal(rec.Body, &body)
		if len(body.PublicKeyCred) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing credential"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token": map[string]string{"value": outgoingToken},
		})
		return
	}

	n.record(&n.GrantRequests, r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"interact": map[string]interface{}{
			"spc": map[string]interface{}{
				"credential_ids": []string{spcCredential},
				"challenge":      spcChallenge,
			},
		},
		"continue": map[string]interface{}{
			"uri":          fmt.Sprintf("%s/auth/continue/%d", n.CustomerAuth.URL, n.nextID()),
			"access_token": map[string]string{"value": continueToken},
		},
	})
}
