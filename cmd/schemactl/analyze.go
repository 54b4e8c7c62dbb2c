package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/schema-scanner/internal/entity"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Analyze the structured data of a single page",
		Long: `Analyze fetches one page, extracts its JSON-LD schemas and reports
identifier consistency, a score and recommendations.

Examples:
  schemactl analyze https://example.com/
  schemactl analyze --deep --format markdown https://example.com/product/1`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().Bool("deep", false, "Also list same-origin links found on the page")
	cmd.Flags().Bool("no-consistency", false, "Skip the identifier consistency check")
	cmd.Flags().Bool("no-recommendations", false, "Skip recommendations")

	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	rt, err := newApp(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer rt.close()

	deep, _ := cmd.Flags().GetBool("deep")
	noConsistency, _ := cmd.Flags().GetBool("no-consistency")
	noRecommendations, _ := cmd.Flags().GetBool("no-recommendations")

	opts := entity.DefaultScanOptions()
	opts.DeepScan = deep
	opts.ConsistencyCheck = !noConsistency
	opts.Recommendations = !noRecommendations

	record, err := rt.scanner.AnalyzeSinglePage(commandContext(cmd), args[0], opts)
	if err != nil {
		return err
	}
	if err := rt.writer.WriteScan(record); err != nil {
		return err
	}
	if record.Status == entity.ScanStatusFailed {
		return fmt.Errorf("analysis failed: %s", record.Error)
	}
	return nil
}
