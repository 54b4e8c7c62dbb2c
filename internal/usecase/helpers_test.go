package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/user/schema-scanner/internal/entity"
	"github.com/user/schema-scanner/internal/repository"
)

// fakeFetcher serves canned pages keyed by URL. Unknown URLs fail with a
// navigation error.
type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string]*entity.FetchedPage
	errs    map[string]error
	fetched []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: make(map[string]*entity.FetchedPage),
		errs:  make(map[string]error),
	}
}

func (f *fakeFetcher) addPage(url string, scripts []string, hrefs ...string) {
	f.pages[url] = &entity.FetchedPage{
		URL:            url,
		StatusCode:     200,
		Title:          "page " + url,
		ScriptPayloads: scripts,
		AnchorHrefs:    hrefs,
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, _ time.Duration) (*entity.FetchedPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, url)
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	page, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrNavigationFailed, url)
	}
	copied := *page
	return &copied, nil
}

func (f *fakeFetcher) fetchedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetched...)
}

type fakeSitemaps struct {
	urls []string
	err  error
}

func (s *fakeSitemaps) URLs(context.Context, string) ([]string, error) {
	return s.urls, s.err
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func schema(schemaType, id string) entity.SchemaObject {
	obj := entity.SchemaObject{Type: schemaType, Attributes: map[string]any{"@type": schemaType}}
	if id != "" {
		obj.ID = strPtr(id)
	}
	return obj
}
