package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/acme-commerce/storefront-api/cmd/checkout"
	"github.com/acme-commerce/storefront-api/cmd/probe"
	"github.com/acme-commerce/storefront-api/cmd/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "storefront-api",
		Short: "Acme Commerce storefront API",
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.AddCommand(
		server.New(),
		probe.New(),
		checkout.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
