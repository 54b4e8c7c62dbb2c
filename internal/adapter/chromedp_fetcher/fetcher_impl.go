package chromedp_fetcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/schema-scanner/internal/adapter/htmlpage"
	"github.com/user/schema-scanner/internal/adapter/proxy"
	"github.com/user/schema-scanner/internal/entity"
	"github.com/user/schema-scanner/internal/repository"
)

// ChromedpFetcher renders pages in a shared headless Chrome. Each fetch gets
// its own tab for exactly one navigation; tabs are bounded by the pool size.
type ChromedpFetcher struct {
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	tabs          chan struct{}
	logger        *zap.Logger
}

// NewChromedpFetcher starts the browser process and returns a fetcher that
// allows up to poolSize concurrent tabs.
func NewChromedpFetcher(poolSize int, pm *proxy.Manager, logger *zap.Logger) (*ChromedpFetcher, error) {
	if poolSize <= 0 {
		poolSize = 1
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(pm.GetUserAgent()),
	)
	if p := pm.GetProxy(); p != "" {
		opts = append(opts, chromedp.ProxyServer(p))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Sugar().Debugf))

	// The first Run starts the browser; later contexts open tabs in it.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &ChromedpFetcher{
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		tabs:          make(chan struct{}, poolSize),
		logger:        logger,
	}, nil
}

// Close shuts the browser down.
func (f *ChromedpFetcher) Close() {
	f.cancelBrowser()
	f.cancelAlloc()
}

// Fetch implements repository.PageFetcher.
func (f *ChromedpFetcher) Fetch(ctx context.Context, pageURL string, timeout time.Duration) (*entity.FetchedPage, error) {
	release, err := f.acquireTab(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	// Tabs hang off the browser context; close this one when the caller gives up.
	tabCtx, cancelTab := chromedp.NewContext(f.browserCtx)
	defer cancelTab()
	stopWatch := context.AfterFunc(ctx, cancelTab)
	defer stopWatch()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	var (
		mu         sync.Mutex
		statusCode int
	)
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if e, ok := ev.(*network.EventResponseReceived); ok && e.Type == network.ResourceTypeDocument {
			mu.Lock()
			if statusCode == 0 {
				statusCode = int(e.Response.Status)
			}
			mu.Unlock()
		}
	})

	var finalURL, title, html string
	start := time.Now()
	err = chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&finalURL),
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("fetch %s: %w", pageURL, ctxErr)
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(tabCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %s", repository.ErrFetchTimeout, timeout, pageURL)
		}
		return nil, fmt.Errorf("%w: %v", repository.ErrNavigationFailed, err)
	}

	mu.Lock()
	status := statusCode
	mu.Unlock()
	if status != 0 && (status < 200 || status >= 300) {
		return nil, fmt.Errorf("%w: %d", repository.ErrBadStatus, status)
	}

	f.logger.Debug("page rendered",
		zap.String("url", pageURL),
		zap.String("final_url", finalURL),
		zap.Int("status_code", status),
		zap.Duration("duration", time.Since(start)),
	)

	page, err := htmlpage.Parse(finalURL, status, html)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing rendered html: %v", repository.ErrNavigationFailed, err)
	}
	if title != "" {
		page.Title = title
	}
	return page, nil
}

// acquireTab blocks until a tab slot is free. The returned func must be called
// exactly once, even when the fetch fails.
func (f *ChromedpFetcher) acquireTab(ctx context.Context) (func(), error) {
	select {
	case f.tabs <- struct{}{}:
		return func() { <-f.tabs }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
