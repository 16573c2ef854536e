package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

var (
	keysURL        string
	keysTimeout    time.Duration
	keysJSONOutput bool
)

type keysResult struct {
	URL  string     `json:"url"`
	TTL  string     `json:"ttl"`
	Keys []keyEntry `json:"keys"`
}

type keyEntry struct {
	KID  string `json:"kid"`
	Bits int    `json:"bits"`
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Fetch the identity provider's signing keys",
	Long: `Fetches the JWKS the service verifies ID tokens against and prints the
usable RS256 key ids and how long the response may be cached. Useful to check
connectivity from the host the service runs on.`,
	Args: cobra.NoArgs,
	RunE: runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.Flags().StringVar(&keysURL, "url", jwtx.GoogleCertsURL, "JWKS endpoint")
	keysCmd.Flags().DurationVar(&keysTimeout, "timeout", jwtx.DefaultFetchTimeout, "Request timeout")
	keysCmd.Flags().BoolVar(&keysJSONOutput, "json", false, "Output results as JSON")
}

func runKeys(cmd *cobra.Command, args []string) error {
	fetcher := jwtx.NewKeyFetcher(keysURL, &http.Client{Timeout: keysTimeout}, jwtx.NewKeyCache(), slogx.Discard())

	keys, ttl, err := fetcher.Fetch(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch %s: %w", keysURL, err)
	}

	result := keysResult{URL: keysURL, TTL: ttl.String()}
	for _, kid := range slices.Sorted(maps.Keys(keys)) {
		result.Keys = append(result.Keys, keyEntry{KID: kid, Bits: keys[kid].N.BitLen()})
	}

	return printKeys(cmd.OutOrStdout(), result, keysJSONOutput)
}

func printKeys(w io.Writer, result keysResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(w, "%s (cache for %s)\n", result.URL, result.TTL)
	if len(result.Keys) == 0 {
		fmt.Fprintln(w, "  no usable RS256 keys")
		return nil
	}
	for _, k := range result.Keys {
		fmt.Fprintf(w, "  %s  RSA-%d\n", k.KID, k.Bits)
	}
	return nil
}
