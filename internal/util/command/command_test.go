package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/acme-commerce/storefront-api/internal/api"
	"github.com/acme-commerce/storefront-api/internal/test"
	"github.com/acme-commerce/storefront-api/internal/util/command"
)

func TestWithServer(t *testing.T) {
	cfg := test.DefaultTestConfig()

	var testError = errors.New("test error")

	resultErr := command.WithServer(t.Context(), cfg, func(ctx context.Context, s *api.Server) error {
		assert.True(t, s.Ready())
		assert.NotNil(t, s.Checkout)
		assert.NotNil(t, s.Carts)

		return testError
	})

	assert.Equal(t, testError, resultErr)
}
