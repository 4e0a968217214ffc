package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/acme-commerce/storefront-api/internal/api"
	"github.com/acme-commerce/storefront-api/internal/config"
	"github.com/acme-commerce/storefront-api/internal/util/command"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Starts the storefront API server",
		Run: func(_ *cobra.Command, _ []string) {
			runServer()
		},
	}
}

func runServer() {
	ctx, stop := command.NewContext()
	defer stop()

	cfg := config.DefaultServiceConfigFromEnv()

	err := command.WithServer(ctx, cfg, func(ctx context.Context, s *api.Server) error {
		go func() {
			if err := s.Start(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("Failed to start server")
			}
		}()

		log.Info().Str("address", cfg.Echo.ListenAddress).Msg("Server started")
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Server terminated")
	}
}
