package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHostMap(t *testing.T) {
	m := parseHostMap("backend=http://localhost:3000, peer-backend=http://localhost:4000,,broken")
	require.Len(t, m, 2)
	assert.Equal(t, "http://localhost:3000", m["backend"])
	assert.Equal(t, "http://localhost:4000", m["peer-backend"])
}

func TestDefaultServiceConfigFromEnv(t *testing.T) {
	t.Setenv("PAYMENTS_MERCHANT_PAYMENT_POINTER", "$peer-backend/store")
	t.Setenv("PAYMENTS_SIGNING_AUTHORITIES", "backend=http://sig.test")

	cfg := DefaultServiceConfigFromEnv()

	assert.Equal(t, "$peer-backend/store", cfg.Payments.MerchantPaymentPointer)
	assert.Equal(t, map[string]string{"backend": "http://sig.test"}, cfg.Payments.SigningAuthorities)
	assert.True(t, cfg.Payments.InteractiveCheckoutEnabled)
	assert.NotEmpty(t, cfg.Echo.ListenAddress)
	assert.Equal(t, "http://localhost:3000", cfg.Payments.AddressMap["backend"])
}
