package usecase

import (
	"context"
	"errors"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/user/schema-scanner/internal/entity"
	"github.com/user/schema-scanner/internal/repository"
	"github.com/user/schema-scanner/pkg/metrics"
)

// pageScanner fetches one page and turns it into a PageResult.
type pageScanner struct {
	fetcher repository.PageFetcher
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func (p *pageScanner) scan(ctx context.Context, pageURL string, depth int, timeout time.Duration) (entity.PageResult, *entity.FetchedPage, error) {
	domain := "unknown"
	if u, err := url.Parse(pageURL); err == nil && u.Hostname() != "" {
		domain = u.Hostname()
	}

	start := time.Now()
	fetched, err := p.fetcher.Fetch(ctx, pageURL, timeout)
	p.metrics.FetchDuration.WithLabelValues(domain).Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.PageFetchesTotal.WithLabelValues(fetchErrorType(err)).Inc()
		return entity.PageResult{}, nil, err
	}
	p.metrics.PageFetchesTotal.WithLabelValues("success").Inc()

	extracted := ExtractSchemas(fetched.ScriptPayloads)
	for _, skip := range extracted.Skipped {
		p.logger.Warn("skipping malformed structured-data payload",
			zap.String("url", pageURL),
			zap.Int("payload_index", skip.Index),
			zap.String("reason", skip.Reason),
		)
	}
	p.metrics.SchemasExtracted.Add(float64(len(extracted.Schemas)))
	p.metrics.MalformedPayloads.Add(float64(len(extracted.Skipped)))

	schemas := extracted.Schemas
	if schemas == nil {
		schemas = []entity.SchemaObject{}
	}
	page := entity.PageResult{
		URL:               pageURL,
		Title:             fetched.Title,
		CanonicalURL:      fetched.CanonicalURL,
		StatusCode:        fetched.StatusCode,
		Depth:             depth,
		Schemas:           schemas,
		SchemasFound:      len(schemas),
		MalformedPayloads: len(extracted.Skipped),
		ScannedAt:         time.Now().UTC(),
	}

	p.logger.Debug("page scanned",
		zap.String("url", pageURL),
		zap.Int("depth", depth),
		zap.Int("schemas_found", page.SchemasFound),
		zap.Duration("duration", time.Since(start)),
	)
	return page, fetched, nil
}

func fetchErrorType(err error) string {
	switch {
	case errors.Is(err, repository.ErrFetchTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, repository.ErrNavigationFailed):
		return "navigation"
	case errors.Is(err, repository.ErrBadStatus):
		return "bad_status"
	default:
		return "unknown"
	}
}
