package openpayments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestAddressMap() *AddressMap {
	return NewAddressMap(map[string]string{
		"backend":      "http://localhost:3000",
		"peer-backend": "http://localhost:4000/",
	})
}

func TestAddressMapEndpoint(t *testing.T) {
	m := newTestAddressMap()

	assert.Equal(t, "http://localhost:3000", m.Endpoint("backend"))
	// Trailing slashes are normalized away.
	assert.Equal(t, "http://localhost:4000", m.Endpoint("peer-backend"))
	// Unmapped hosts are assumed directly reachable.
	assert.Equal(t, "http://wallet.example", m.Endpoint("wallet.example"))
}

func TestAddressMapRewriteURL(t *testing.T) {
	m := newTestAddressMap()

	assert.Equal(t, "http://localhost:3000/auth/continue/1?wait=30",
		m.RewriteURL("http://backend/auth/continue/1?wait=30"))
	// Unmapped hosts pass through.
	assert.Equal(t, "http://wallet.example/auth", m.RewriteURL("http://wallet.example/auth"))
	assert.Equal(t, "::not a url::", m.RewriteURL("::not a url::"))
}

func TestAddressMapVirtualizeURL(t *testing.T) {
	m := newTestAddressMap()

	assert.Equal(t, "http://peer-backend/accounts/acme/incoming-payments",
		m.VirtualizeURL("http://localhost:4000/accounts/acme/incoming-payments"))
	// Round trip.
	concrete := m.RewriteURL("http://backend/accounts/gfranklin/quotes")
	assert.Equal(t, "http://backend/accounts/gfranklin/quotes", m.VirtualizeURL(concrete))
	// Unmapped hosts pass through.
	assert.Equal(t, "http://localhost:9999/x", m.VirtualizeURL("http://localhost:9999/x"))
}
