package openpayments

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Delegate signs outbound requests by delegating the signature computation
// to the counterparty's signature service. Which of the configured signing
// authorities serves a counterparty is decided by its logical host; an
// unknown host is an error rather than a silent default.
type Delegate struct {
	authorities map[string]string
	addresses   *AddressMap
	client      *http.Client
}

func NewDelegate(authorities map[string]string, addresses *AddressMap, client *http.Client) *Delegate {
	return &Delegate{
		authorities: authorities,
		addresses:   addresses,
		client:      client,
	}
}

type jwks struct {
	Keys []struct {
		Kid string `json:"kid"`
	} `json:"keys"`
}

// signaturePayload is the canonical serialization of a request the signature
// service computes message-signature headers over.
type signaturePayload struct {
	KeyID   string           `json:"keyId"`
	Request signatureRequest `json:"request"`
}

type signatureRequest struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

// Sign discovers the counterparty's active key, asks its signature service
// for signature headers over the exact request, and appends them in place.
// The returned SigningContext is bound to the same (signature service, key)
// pair and must be reused for every later request of the same transaction
// that targets the same authorization server.
func (d *Delegate) Sign(ctx context.Context, req *Request, counterparty PaymentPointer) (*SigningContext, error) {
	log := zerolog.Ctx(ctx)

	signatureURL, ok := d.authorities[counterparty.Host]
	if !ok {
		return nil, newStepError(StepKeyDiscovery, errors.Errorf("no signing authority configured for host %q", counterparty.Host))
	}

	jwksURL := d.addresses.Endpoint(counterparty.Host) + counterparty.Path + "/jwks.json"
	jwksReq := NewRequest(http.MethodGet, jwksURL, counterparty.Host, nil)

	var keys jwks
	if err := doJSON(ctx, d.client, jwksReq, StepKeyDiscovery, &keys); err != nil {
		return nil, err
	}
	if len(keys.Keys) == 0 {
		return nil, newStepError(StepKeyDiscovery, errors.Errorf("empty key set at %s", jwksURL))
	}
	keyID := keys.Keys[0].Kid

	sc := &SigningContext{
		SignatureURL: signatureURL,
		KeyID:        keyID,
		addresses:    d.addresses,
		client:       d.client,
	}

	log.Debug().
		Str("host", counterparty.Host).
		Str("key_id", keyID).
		Str("signature_url", signatureURL).
		Msg("Signing request")

	// Grant requests target the authorization server directly, so the
	// request URL is already the wire-visible one.
	if err := sc.sign(ctx, req, req.URL); err != nil {
		return nil, err
	}
	return sc, nil
}

// SigningContext re-signs follow-up requests without repeating authority
// selection and key discovery. It is held by the caller for the lifetime of
// one checkout attempt and never persisted.
type SigningContext struct {
	SignatureURL string
	KeyID        string

	addresses *AddressMap
	client    *http.Client
}

// NewSigningContext rebuilds a context from its round-tripped identifiers,
// as happens between the start and finish halves of a checkout.
func NewSigningContext(signatureURL, keyID string, addresses *AddressMap, client *http.Client) *SigningContext {
	return &SigningContext{
		SignatureURL: signatureURL,
		KeyID:        keyID,
		addresses:    addresses,
		client:       client,
	}
}

// Resign signs a follow-up request. The signature is computed over the
// virtualized URL: resource backends are addressed by concrete transport
// URLs but route on logical hostnames, and the signature must cover the URL
// the receiving party actually sees.
func (s *SigningContext) Resign(ctx context.Context, req *Request) error {
	return s.sign(ctx, req, s.addresses.VirtualizeURL(req.URL))
}

func (s *SigningContext) sign(ctx context.Context, req *Request, signedURL string) error {
	payload := signaturePayload{
		KeyID: s.KeyID,
		Request: signatureRequest{
			URL:     signedURL,
			Method:  req.Method,
			Headers: req.headerMap(),
			Body:    string(req.Body),
		},
	}

	sigReq, err := NewJSONRequest(http.MethodPost, s.SignatureURL, "", payload)
	if err != nil {
		return newStepError(StepSignatureService, err)
	}

	var headers map[string]string
	if err := doJSON(ctx, s.client, sigReq, StepSignatureService, &headers); err != nil {
		return err
	}

	// Append, never replace: the signature covers the headers as sent.
	for k, v := range headers {
		req.Header.Add(k, v)
	}
	return nil
}
