package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gamerx",
	Short: "GamerX storefront API",
	Long: `GamerX serves the storefront REST API: accounts, store catalogs, carts turned into
orders, mock payments and product reviews.

Run "gamerx serve" to start the HTTP server and "gamerx migrate" to create or update
the PostgreSQL schema.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
