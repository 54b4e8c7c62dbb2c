package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/schema-scanner/internal/entity"
	"github.com/user/schema-scanner/internal/repository"
	"github.com/user/schema-scanner/pkg/metrics"
	"github.com/user/schema-scanner/pkg/utils"
)

const (
	DefaultMaxPages   = 25
	DefaultCrawlDepth = 3
)

// CrawlResult is the traversal output handed back to the scan owner.
type CrawlResult struct {
	Pages   []entity.PageResult
	Skipped []entity.SkippedURL
}

// ProgressFunc observes the crawl after every visited or skipped URL.
// The result must not be retained past the call.
type ProgressFunc func(*CrawlResult)

type frontierEntry struct {
	url   string
	depth int
}

// SiteCrawler walks one site breadth-first under page and depth budgets.
// A crawl is sequential; separate crawls share nothing but the fetcher.
type SiteCrawler struct {
	pages       *pageScanner
	sitemaps    repository.SitemapRepository
	logger      *zap.Logger
	pageTimeout time.Duration
}

// NewSiteCrawler creates a crawler. sitemaps may be nil.
func NewSiteCrawler(
	fetcher repository.PageFetcher,
	sitemaps repository.SitemapRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
	pageTimeout time.Duration,
) *SiteCrawler {
	return &SiteCrawler{
		pages:       &pageScanner{fetcher: fetcher, metrics: m, logger: logger},
		sitemaps:    sitemaps,
		logger:      logger,
		pageTimeout: pageTimeout,
	}
}

// Crawl visits startURL and the same-origin pages reachable from it. It only
// returns an error when the start page itself cannot be fetched; later fetch
// failures are recorded in CrawlResult.Skipped.
func (c *SiteCrawler) Crawl(ctx context.Context, startURL string, opts entity.ScanOptions, progress ProgressFunc) (*CrawlResult, error) {
	start, err := utils.NormalizeURL(startURL)
	if err != nil {
		return nil, fmt.Errorf("invalid start url %q: %w", startURL, err)
	}
	maxPages, maxDepth := opts.MaxPages, opts.Depth(DefaultCrawlDepth)
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	result := &CrawlResult{Pages: []entity.PageResult{}}
	visited := make(map[string]struct{})
	queued := map[string]struct{}{start: {}}
	frontier := []frontierEntry{{url: start, depth: 0}}
	boundary := start

	enqueue := func(links []string, depth int) {
		for _, link := range links {
			if _, ok := visited[link]; ok {
				continue
			}
			if _, ok := queued[link]; ok {
				continue
			}
			queued[link] = struct{}{}
			frontier = append(frontier, frontierEntry{url: link, depth: depth})
		}
	}

	if opts.IncludeSitemaps && c.sitemaps != nil && maxDepth >= 1 {
		enqueue(c.sitemapLinks(ctx, start), 1)
	}

	for len(frontier) > 0 && len(result.Pages) < maxPages {
		entry := frontier[0]
		frontier = frontier[1:]

		if _, ok := visited[entry.url]; ok {
			continue
		}
		if entry.depth > maxDepth {
			continue
		}
		visited[entry.url] = struct{}{}

		page, fetched, err := c.pages.scan(ctx, entry.url, entry.depth, c.pageTimeout)
		if err != nil {
			if entry.url == start {
				return nil, fmt.Errorf("fetch start page %s: %w", entry.url, err)
			}
			c.logger.Warn("skipping page after fetch failure",
				zap.String("url", entry.url),
				zap.Int("depth", entry.depth),
				zap.Error(err),
			)
			result.Skipped = append(result.Skipped, entity.SkippedURL{URL: entry.url, Depth: entry.depth, Reason: err.Error()})
			c.report(progress, result)
			continue
		}

		base := entry.url
		if fetched.URL != "" {
			base = fetched.URL
		}
		if entry.url == start {
			boundary = base
		}

		if isVisitedAlias(base, entry.url, visited) {
			c.logger.Debug("skipping redirect to an already scanned page",
				zap.String("url", entry.url),
				zap.String("final_url", base),
			)
			continue
		}
		if fetched.CanonicalURL != "" {
			canonical := fetched.CanonicalURL
			if abs, err := utils.ResolveURL(base, canonical); err == nil {
				canonical = abs
			}
			page.CanonicalURL = canonical
			if isVisitedAlias(canonical, entry.url, visited) {
				c.logger.Debug("skipping page with already scanned canonical url",
					zap.String("url", entry.url),
					zap.String("canonical_url", canonical),
				)
				continue
			}
		}

		var links []string
		if entry.depth < maxDepth || opts.DeepScan {
			links = DiscoverLinks(base, boundary, fetched.AnchorHrefs)
		}
		if opts.DeepScan {
			page.Links = links
		}
		result.Pages = append(result.Pages, page)
		c.report(progress, result)

		if entry.depth < maxDepth {
			enqueue(links, entry.depth+1)
		}
	}

	c.logger.Info("crawl finished",
		zap.String("start_url", start),
		zap.Int("pages", len(result.Pages)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("frontier_left", len(frontier)),
	)
	return result, nil
}

// isVisitedAlias marks alias, another absolute URL for the page at pageKey,
// as visited and reports whether it had already been visited.
func isVisitedAlias(alias, pageKey string, visited map[string]struct{}) bool {
	key, err := utils.NormalizeURL(alias)
	if err != nil || key == pageKey {
		return false
	}
	if _, ok := visited[key]; ok {
		return true
	}
	visited[key] = struct{}{}
	return false
}

func (c *SiteCrawler) sitemapLinks(ctx context.Context, start string) []string {
	u, err := utils.ParseAbsolute(start)
	if err != nil {
		return nil
	}
	urls, err := c.sitemaps.URLs(ctx, utils.Origin(u))
	if err != nil {
		c.logger.Warn("sitemap seeding failed", zap.String("start_url", start), zap.Error(err))
		return nil
	}
	return DiscoverLinks(start, start, urls)
}

func (c *SiteCrawler) report(progress ProgressFunc, result *CrawlResult) {
	if progress != nil {
		progress(result)
	}
}
