package sitemap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"go.uber.org/zap"

	"github.com/user/schema-scanner/internal/adapter/proxy"
)

const (
	pageLocExpr    = "//*[local-name()='urlset']/*[local-name()='url']/*[local-name()='loc']"
	sitemapLocExpr = "//*[local-name()='sitemapindex']/*[local-name()='sitemap']/*[local-name()='loc']"

	// maxIndexDepth bounds how far sitemap index files are followed.
	maxIndexDepth = 1
)

// SitemapRepoImpl reads /sitemap.xml (and one level of sitemap indexes) over HTTP.
type SitemapRepoImpl struct {
	client       *http.Client
	proxyManager *proxy.Manager
	maxURLs      int
	logger       *zap.Logger
}

// NewSitemapRepo creates a sitemap reader returning at most maxURLs URLs.
func NewSitemapRepo(timeout time.Duration, maxURLs int, pm *proxy.Manager, logger *zap.Logger) *SitemapRepoImpl {
	return &SitemapRepoImpl{
		client:       &http.Client{Timeout: timeout},
		proxyManager: pm,
		maxURLs:      maxURLs,
		logger:       logger,
	}
}

// URLs returns page URLs listed by origin's sitemap, in file order.
func (r *SitemapRepoImpl) URLs(ctx context.Context, origin string) ([]string, error) {
	urls := []string{}
	err := r.collect(ctx, strings.TrimRight(origin, "/")+"/sitemap.xml", 0, &urls)
	return urls, err
}

func (r *SitemapRepoImpl) collect(ctx context.Context, sitemapURL string, depth int, urls *[]string) error {
	doc, err := r.fetch(ctx, sitemapURL)
	if err != nil {
		return err
	}

	for _, loc := range xmlquery.Find(doc, pageLocExpr) {
		if r.maxURLs > 0 && len(*urls) >= r.maxURLs {
			return nil
		}
		if u := strings.TrimSpace(loc.InnerText()); u != "" {
			*urls = append(*urls, u)
		}
	}

	if depth >= maxIndexDepth {
		return nil
	}
	for _, loc := range xmlquery.Find(doc, sitemapLocExpr) {
		child := strings.TrimSpace(loc.InnerText())
		if child == "" {
			continue
		}
		if err := r.collect(ctx, child, depth+1, urls); err != nil {
			r.logger.Warn("skipping nested sitemap", zap.String("sitemap_url", child), zap.Error(err))
		}
	}
	return nil
}

func (r *SitemapRepoImpl) fetch(ctx context.Context, sitemapURL string) (*xmlquery.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.proxyManager.GetUserAgent())

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap %s: %w", sitemapURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sitemap %s: status %d", sitemapURL, resp.StatusCode)
	}

	doc, err := xmlquery.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse sitemap %s: %w", sitemapURL, err)
	}
	return doc, nil
}
