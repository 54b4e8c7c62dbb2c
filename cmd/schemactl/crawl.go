package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/schema-scanner/internal/entity"
	"github.com/user/schema-scanner/internal/usecase"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Crawl a site and analyze its structured data",
		Long: `Crawl walks same-origin pages breadth-first from the start URL and
analyzes every schema found across the site as one data set.

Examples:
  schemactl crawl https://example.com/
  schemactl crawl --max-pages 50 --depth 2 --sitemaps https://example.com/`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().IntP("max-pages", "p", usecase.DefaultMaxPages, "Maximum number of pages to scan")
	cmd.Flags().IntP("depth", "d", usecase.DefaultCrawlDepth, "Maximum link depth from the start page")
	cmd.Flags().Bool("sitemaps", false, "Seed the crawl from /sitemap.xml")
	cmd.Flags().Bool("deep", false, "Record the links discovered on every page")

	return cmd
}

func runCrawlCmd(cmd *cobra.Command, args []string) error {
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	depth, _ := cmd.Flags().GetInt("depth")
	sitemaps, _ := cmd.Flags().GetBool("sitemaps")
	deep, _ := cmd.Flags().GetBool("deep")
	if maxPages <= 0 {
		return fmt.Errorf("--max-pages must be positive, got %d", maxPages)
	}
	if depth < 0 {
		return fmt.Errorf("--depth must not be negative, got %d", depth)
	}

	rt, err := newApp(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := entity.DefaultScanOptions()
	opts.MaxPages = maxPages
	opts.CrawlDepth = &depth
	opts.IncludeSitemaps = sitemaps
	opts.DeepScan = deep

	record, err := rt.scanner.RunSiteScan(ctx, args[0], opts)
	if err != nil {
		return err
	}
	if err := rt.writer.WriteScan(record); err != nil {
		return err
	}
	if record.Status == entity.ScanStatusFailed {
		return fmt.Errorf("crawl failed: %s", record.Error)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
