package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schemactl",
		Short: "Audit the Schema.org JSON-LD markup of a page or site",
		Long: `schemactl extracts Schema.org JSON-LD from web pages, checks that every
entity type uses one consistent identifier and scores the result.

Runs are local: results are printed and not stored.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("fetcher", "http", "Page fetcher: http or chromedp")
	cmd.PersistentFlags().DurationP("timeout", "t", defaultPageTimeout, "Timeout for each page fetch")
	cmd.PersistentFlags().StringP("format", "f", "json", "Output format: json or markdown")
	cmd.PersistentFlags().String("namespace-prefix", "schema:", "Expected identifier prefix; empty disables the check")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHealthCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
