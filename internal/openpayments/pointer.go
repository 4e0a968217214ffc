package openpayments

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// PaymentPointer is a parsed "$host/path" identifier naming a party's
// payment account. Immutable once parsed.
type PaymentPointer struct {
	Host string
	Path string
}

// ParsePaymentPointer validates and splits a payment pointer string.
func ParsePaymentPointer(raw string) (PaymentPointer, error) {
	if !strings.HasPrefix(raw, "$") {
		return PaymentPointer{}, errors.Errorf("payment pointer %q must start with $", raw)
	}
	host, path, _ := strings.Cut(strings.TrimPrefix(raw, "$"), "/")
	if host == "" {
		return PaymentPointer{}, errors.Errorf("payment pointer %q has no host", raw)
	}
	p := PaymentPointer{Host: host}
	if path != "" {
		p.Path = "/" + path
	}
	return p, nil
}

func (p PaymentPointer) String() string {
	return "$" + p.Host + p.Path
}

// URL substitutes the pointer's scheme marker with a transport scheme.
func (p PaymentPointer) URL(scheme string) string {
	return scheme + "://" + p.Host + p.Path
}

// PartyEndpoint is the resolved form of a payment pointer: the concrete
// endpoint, the logical host used for routing and signing decisions, and
// the party's authorization server. Constructed once per transaction per
// party.
type PartyEndpoint struct {
	Pointer       PaymentPointer
	URL           string
	LogicalHost   string
	AuthServerURL string
}

type pointerMetadata struct {
	AuthServer string `json:"authServer"`
}

// Resolver fetches payment-pointer metadata through the address table.
type Resolver struct {
	addresses     *AddressMap
	authAddresses *AddressMap
	client        *http.Client
}

func NewResolver(addresses, authAddresses *AddressMap, client *http.Client) *Resolver {
	return &Resolver{addresses: addresses, authAddresses: authAddresses, client: client}
}

// Resolve GETs the pointer resource itself (with the logical host carried in
// the Host header, supporting host-based virtual routing) and discovers the
// party's authorization server from the returned metadata.
func (r *Resolver) Resolve(ctx context.Context, rawPointer string) (*PartyEndpoint, error) {
	pointer, err := ParsePaymentPointer(rawPointer)
	if err != nil {
		return nil, newStepError(StepResolveEndpoint, err)
	}

	endpoint := r.addresses.Endpoint(pointer.Host) + pointer.Path

	req := NewRequest(http.MethodGet, endpoint, pointer.Host, nil)
	var meta pointerMetadata
	if err := doJSON(ctx, r.client, req, StepResolveEndpoint, &meta); err != nil {
		return nil, err
	}
	if meta.AuthServer == "" {
		return nil, newStepError(StepResolveEndpoint, errors.Errorf("pointer %s announces no auth server", pointer))
	}

	return &PartyEndpoint{
		Pointer:       pointer,
		URL:           endpoint,
		LogicalHost:   pointer.Host,
		AuthServerURL: r.authAddresses.RewriteURL(meta.AuthServer),
	}, nil
}
