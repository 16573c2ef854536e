package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sessiond",
	Short: "sessiond exchanges Google ID tokens for short-lived session tokens",
	Long: `A small session service: verifies Google Sign-In ID tokens against Google's
published keys, issues one-hour HS256 session tokens, renews them on tick and
keeps an append-only login history.

Configuration is read from the environment (and a .env file if present).`,
	SilenceUsage: true,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
