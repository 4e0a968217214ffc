package test

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/acme-commerce/storefront-api/internal/api"
	"github.com/acme-commerce/storefront-api/internal/api/router"
	"github.com/acme-commerce/storefront-api/internal/config"
)

// DefaultTestConfig returns the service config tuned for tests: quiet
// logging, in-memory cart store and no metrics middleware (its collectors
// register process-globally and would collide across test servers).
func DefaultTestConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Echo.ListenAddress = ":0"
	cfg.Echo.EnableLoggerMiddleware = false
	cfg.Logger.Level = zerolog.ErrorLevel
	cfg.Metrics.Enabled = false
	cfg.Cart.RedisEnabled = false
	return cfg
}

// WithTestServer hands a fully wired server with the default test config to
// the closure. The server does not listen; requests go through
// PerformRequest.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()
	WithTestServerConfigurable(t, DefaultTestConfig(), closure)
}

// WithTestServerConfigurable is WithTestServer with a caller-supplied
// config.
func WithTestServerConfigurable(t *testing.T, cfg config.Server, closure func(s *api.Server)) {
	t.Helper()

	s := api.NewServer(cfg)
	router.Init(s)

	closure(s)
}
