// Package cmd defines and implements the CLI commands for the workshop aggregator.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workshop-aggregator",
		Short: "Aggregates workshop content metadata behind a cached HTTP API.",
		Long: `workshop-aggregator fronts the workshop metadata API and item pages.
It merges structured records with dependencies and previews scraped from
the public item page, and caches complete responses for repeat clients.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (defaults and WORKSHOP_* env vars apply when empty)")

	cmd.AddCommand(newServeCmd())
	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "command failed: %v\n", err)
		os.Exit(1)
	}
}
