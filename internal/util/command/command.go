package command

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/acme-commerce/storefront-api/internal/api"
	"github.com/acme-commerce/storefront-api/internal/api/router"
	"github.com/acme-commerce/storefront-api/internal/config"
)

// NewSubcommandGroup returns a command that only exists to group its
// subcommands.
func NewSubcommandGroup(name string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use: name,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	cmd.AddCommand(subcommands...)
	return cmd
}

// WithServer constructs a fully wired (but not listening) server and hands
// it to fn, applying the configured log level first.
func WithServer(ctx context.Context, cfg config.Server, fn func(ctx context.Context, s *api.Server) error) error {
	ApplyLoggerConfig(cfg.Logger)

	s := api.NewServer(cfg)
	router.Init(s)

	return fn(ctx, s)
}

// ApplyLoggerConfig sets the process-global zerolog defaults.
func ApplyLoggerConfig(cfg config.LoggerServer) {
	zerolog.SetGlobalLevel(cfg.Level)
	if cfg.PrettyPrintConsole {
		log.Logger = log.Output(zerolog.NewConsoleWriter())
	}
}

// NewContext returns a context cancelled on SIGINT/SIGTERM.
func NewContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
