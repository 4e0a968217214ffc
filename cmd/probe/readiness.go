package probe

import (
	"github.com/spf13/cobra"
)

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Probes the server's readiness endpoint",
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool(verboseFlag)
			probe("/-/ready", verbose)
		},
	}
	cmd.Flags().BoolP(verboseFlag, "v", false, "Prints the probe response body")
	return cmd
}
