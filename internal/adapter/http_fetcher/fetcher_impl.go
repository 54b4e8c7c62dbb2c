package http_fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/user/schema-scanner/internal/adapter/htmlpage"
	"github.com/user/schema-scanner/internal/adapter/proxy"
	"github.com/user/schema-scanner/internal/entity"
	"github.com/user/schema-scanner/internal/repository"
)

const maxBodyBytes = 10 << 20

// HTTPFetcher fetches pages without a browser. Markup injected by client-side
// scripts is not seen; use the chromedp fetcher for those sites.
type HTTPFetcher struct {
	client       *http.Client
	proxyManager *proxy.Manager
	logger       *zap.Logger
}

// NewHTTPFetcher creates a fetcher that routes requests through the manager's proxies.
func NewHTTPFetcher(pm *proxy.Manager, logger *zap.Logger) *HTTPFetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = func(*http.Request) (*url.URL, error) {
		if p := pm.GetProxy(); p != "" {
			return url.Parse(p)
		}
		return nil, nil
	}
	return &HTTPFetcher{
		client:       &http.Client{Transport: transport},
		proxyManager: pm,
		logger:       logger,
	}
}

// Fetch implements repository.PageFetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string, timeout time.Duration) (*entity.FetchedPage, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrNavigationFailed, err)
	}
	req.Header.Set("User-Agent", f.proxyManager.GetUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %s", repository.ErrFetchTimeout, timeout, pageURL)
		}
		return nil, fmt.Errorf("%w: %v", repository.ErrNavigationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Debug("fetch returned bad status code", zap.String("url", pageURL), zap.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("%w: %d", repository.ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %s", repository.ErrFetchTimeout, timeout, pageURL)
		}
		return nil, fmt.Errorf("%w: reading body: %v", repository.ErrNavigationFailed, err)
	}

	return htmlpage.Parse(resp.Request.URL.String(), resp.StatusCode, string(body))
}
