package probe

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/acme-commerce/storefront-api/internal/config"
)

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Probes the server's liveness endpoint",
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool(verboseFlag)
			probe("/-/healthy", verbose)
		},
	}
	cmd.Flags().BoolP(verboseFlag, "v", false, "Prints the probe response body")
	return cmd
}

// probe exits non-zero when the local server does not answer 200 within the
// probe timeout, matching container health-check semantics.
func probe(path string, verbose bool) {
	cfg := config.DefaultServiceConfigFromEnv()

	address := cfg.Echo.ListenAddress
	if strings.HasPrefix(address, ":") {
		address = "127.0.0.1" + address
	}

	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Get("http://" + address + path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if verbose {
		fmt.Println(string(body))
	}
	if res.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "probe %s returned %d\n", path, res.StatusCode)
		os.Exit(1)
	}
}
