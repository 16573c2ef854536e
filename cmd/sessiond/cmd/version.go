package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/sessiond/internal/auth/app"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		clientID := app.GoogleClientID
		if clientID == "" {
			clientID = "(not set, needs GOOGLE_SSO_CLIENT_ID)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sessiond %s %s\nclient id: %s\n", app.BuildVersion, runtime.Version(), clientID)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
