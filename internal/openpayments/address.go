package openpayments

import (
	"net/url"
	"strings"
)

// AddressMap translates between the logical hostnames the protocol reasons
// in and the concrete base URLs this process can reach. The deployment
// topology (single host with Host-header routing, real DNS, test servers)
// is entirely a property of this table.
type AddressMap struct {
	byLogical  map[string]string
	byConcrete map[string]string
}

// NewAddressMap builds a table from logical host to concrete base URL.
func NewAddressMap(entries map[string]string) *AddressMap {
	m := &AddressMap{
		byLogical:  make(map[string]string, len(entries)),
		byConcrete: make(map[string]string, len(entries)),
	}
	for logical, base := range entries {
		base = strings.TrimSuffix(base, "/")
		m.byLogical[logical] = base
		if u, err := url.Parse(base); err == nil && u.Host != "" {
			m.byConcrete[u.Host] = logical
		}
	}
	return m
}

// Endpoint returns the concrete base URL for a logical host. Hosts without
// a mapping are assumed to be directly reachable over plain HTTP.
func (m *AddressMap) Endpoint(logicalHost string) string {
	if base, ok := m.byLogical[logicalHost]; ok {
		return base
	}
	return "http://" + logicalHost
}

// RewriteURL replaces a logical host inside a URL with its concrete
// endpoint, keeping the path and query. URLs with unmapped hosts pass
// through unchanged.
func (m *AddressMap) RewriteURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	base, ok := m.byLogical[u.Host]
	if !ok {
		return raw
	}
	return base + u.RequestURI()
}

// VirtualizeURL is the inverse of RewriteURL: a concrete transport URL is
// rewritten back to its logical hostname. Signatures are computed over the
// virtualized form because that is the URL the receiving party sees.
func (m *AddressMap) VirtualizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	logical, ok := m.byConcrete[u.Host]
	if !ok {
		return raw
	}
	return u.Scheme + "://" + logical + u.RequestURI()
}
