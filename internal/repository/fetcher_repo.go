package repository

import (
	"context"
	"time"

	"github.com/user/schema-scanner/internal/entity"
)

// PageFetcher renders a page and returns the parts the analysis needs.
type PageFetcher interface {
	// Fetch navigates to url, giving up after timeout. Non-2xx responses are
	// reported as ErrBadStatus.
	Fetch(ctx context.Context, url string, timeout time.Duration) (*entity.FetchedPage, error)
}
