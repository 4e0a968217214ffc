package checkout

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/acme-commerce/storefront-api/internal/config"
	"github.com/acme-commerce/storefront-api/internal/openpayments"
	"github.com/acme-commerce/storefront-api/internal/openpayments/spc"
	"github.com/acme-commerce/storefront-api/internal/util/command"
)

const (
	pointerFlag   = "pointer"
	amountFlag    = "amount"
	cancelFlag    = "cancel"
	assertionFlag = "assertion"
)

// New returns the checkout smoke command. It drives one complete payment
// authorization against a running payments topology, replacing the browser
// confirmation with a canned assertion.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Runs one end-to-end checkout against the configured payment network",
		Run: func(cmd *cobra.Command, _ []string) {
			pointer, _ := cmd.Flags().GetString(pointerFlag)
			amount, _ := cmd.Flags().GetString(amountFlag)
			cancel, _ := cmd.Flags().GetBool(cancelFlag)
			assertion, _ := cmd.Flags().GetString(assertionFlag)

			runCheckout(pointer, amount, cancel, assertion)
		},
	}
	cmd.Flags().StringP(pointerFlag, "p", "", "Customer payment pointer, e.g. $backend/accounts/gfranklin")
	cmd.Flags().StringP(amountFlag, "a", "10.00", "Payment amount in whole currency units")
	cmd.Flags().Bool(cancelFlag, false, "Decline the confirmation instead of approving it")
	cmd.Flags().String(assertionFlag, "", "JSON credential assertion to submit (defaults to a canned one)")
	_ = cmd.MarkFlagRequired(pointerFlag)

	return cmd
}

func runCheckout(pointer string, amount string, cancel bool, assertion string) {
	ctx, stop := command.NewContext()
	defer stop()

	cfg := config.DefaultServiceConfigFromEnv()
	command.ApplyLoggerConfig(cfg.Logger)

	checkout := openpayments.NewCheckout(openpayments.Config{
		MerchantPaymentPointer: cfg.Payments.MerchantPaymentPointer,
		Addresses:              cfg.Payments.AddressMap,
		AuthAddresses:          cfg.Payments.AuthAddressMap,
		SigningAuthorities:     cfg.Payments.SigningAuthorities,
		HTTPClient:             &http.Client{Timeout: cfg.Payments.ClientTimeout},
	})

	confirmer := &spc.Static{Cancel: cancel}
	if assertion != "" {
		confirmer.Assertion = json.RawMessage(assertion)
	}

	payment, err := checkout.Run(ctx, openpayments.StartParams{
		CustomerPaymentPointer: pointer,
		Amount:                 amount,
	}, confirmer)
	if err != nil {
		log.Error().Err(err).Str("step", string(openpayments.StepOf(err))).Msg("Checkout failed")
		os.Exit(1)
	}

	evt := log.Info().Str("id", payment.ID).Str("receiver", payment.Receiver)
	if payment.ReceiveAmount != nil {
		evt = evt.Str("receiveAmount", payment.ReceiveAmount.Value)
	}
	evt.Msg("Checkout completed")
}
