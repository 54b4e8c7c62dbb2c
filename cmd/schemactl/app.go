package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/schema-scanner/internal/adapter/chromedp_fetcher"
	"github.com/user/schema-scanner/internal/adapter/http_fetcher"
	"github.com/user/schema-scanner/internal/adapter/memory"
	"github.com/user/schema-scanner/internal/adapter/proxy"
	"github.com/user/schema-scanner/internal/adapter/sitemap"
	"github.com/user/schema-scanner/internal/report"
	"github.com/user/schema-scanner/internal/repository"
	"github.com/user/schema-scanner/internal/usecase"
	"github.com/user/schema-scanner/pkg/logger"
	"github.com/user/schema-scanner/pkg/metrics"
)

const (
	defaultPageTimeout = 30 * time.Second
	quickCheckTimeout  = 10 * time.Second
	sitemapMaxURLs     = 500
	browserPoolSize    = 2
)

// app is what a subcommand needs to scan and print.
type app struct {
	scanner usecase.Scanner
	writer  report.Writer
	logger  *zap.Logger
	closeFn func()
}

func (r *app) close() {
	if r.closeFn != nil {
		r.closeFn()
	}
	_ = r.logger.Sync()
}

// newApp builds a scanner backed by the in-memory store from the
// persistent flags.
func newApp(cmd *cobra.Command, out io.Writer) (*app, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	fetcherName, _ := cmd.Flags().GetString("fetcher")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	format, _ := cmd.Flags().GetString("format")
	prefix, _ := cmd.Flags().GetString("namespace-prefix")

	if timeout <= 0 {
		return nil, fmt.Errorf("--timeout must be positive, got %s", timeout)
	}
	writer, err := report.NewWriter(report.Format(format), out)
	if err != nil {
		return nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logger.NewWithWriter(os.Stderr, level, "")
	if err != nil {
		return nil, err
	}

	pm := proxy.NewManager(nil, nil)
	rt := &app{writer: writer, logger: log}

	var fetcher repository.PageFetcher
	switch fetcherName {
	case "http":
		fetcher = http_fetcher.NewHTTPFetcher(pm, log)
	case "chromedp":
		browser, err := chromedp_fetcher.NewChromedpFetcher(browserPoolSize, pm, log)
		if err != nil {
			return nil, err
		}
		fetcher = browser
		rt.closeFn = browser.Close
	default:
		return nil, fmt.Errorf("unknown fetcher %q (want http or chromedp)", fetcherName)
	}

	quick := quickCheckTimeout
	if timeout < quick {
		quick = timeout
	}
	rt.scanner = usecase.NewScanner(usecase.ScannerConfig{
		QuickCheckTimeout: quick,
		PageLoadTimeout:   timeout,
		NamespacePrefix:   prefix,
	},
		fetcher,
		sitemap.NewSitemapRepo(quick, sitemapMaxURLs, pm, log),
		memory.NewScanRepo(),
		nil,
		nil,
		metrics.NewNop(),
		log,
	)
	return rt, nil
}
