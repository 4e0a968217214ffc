package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/acme-commerce/storefront-api/internal/cart"
	"github.com/acme-commerce/storefront-api/internal/config"
	"github.com/acme-commerce/storefront-api/internal/openpayments"
)

// Router holds the echo groups the handler packages attach their routes to.
type Router struct {
	Routes []*echo.Route

	Root    *echo.Group
	Payment *echo.Group
	Cart    *echo.Group
}

// Server aggregates the service dependencies handlers operate on.
type Server struct {
	Config   config.Server
	Echo     *echo.Echo
	Router   *Router
	Checkout *openpayments.Checkout
	Carts    *cart.Service
}

func NewServer(cfg config.Server) *Server {
	s := &Server{Config: cfg}

	s.Checkout = openpayments.NewCheckout(openpayments.Config{
		MerchantPaymentPointer: cfg.Payments.MerchantPaymentPointer,
		Addresses:              cfg.Payments.AddressMap,
		AuthAddresses:          cfg.Payments.AuthAddressMap,
		SigningAuthorities:     cfg.Payments.SigningAuthorities,
		HTTPClient:             &http.Client{Timeout: cfg.Payments.ClientTimeout},
	})

	var store cart.Store
	if cfg.Cart.RedisEnabled {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Cart.RedisAddress,
			DB:   cfg.Cart.RedisDB,
		})
		store = cart.NewRedisStore(client, cfg.Cart.TTL)
	} else {
		log.Warn().Msg("Cart store running in-memory, carts are lost on restart")
		store = cart.NewMemoryStore()
	}
	s.Carts = cart.NewService(store)

	return s
}

// Ready reports whether the router was initialized and the server can
// accept requests.
func (s *Server) Ready() bool {
	return s.Echo != nil && s.Router != nil
}

func (s *Server) Start() error {
	if !s.Ready() {
		return echo.ErrServiceUnavailable
	}
	return s.Echo.Start(s.Config.Echo.ListenAddress)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Warn().Msg("Shutting down server")
	if s.Echo != nil {
		return s.Echo.Shutdown(ctx)
	}
	return nil
}
