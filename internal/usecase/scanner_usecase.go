package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/schema-scanner/internal/entity"
	"github.com/user/schema-scanner/internal/repository"
	"github.com/user/schema-scanner/pkg/metrics"
	"github.com/user/schema-scanner/pkg/utils"
)

// Scanner is the analysis entry point used by the API and the CLI.
type Scanner interface {
	// AnalyzeSinglePage fetches and analyzes one page synchronously. A fetch
	// failure yields a failed record rather than an error.
	AnalyzeSinglePage(ctx context.Context, url string, opts entity.ScanOptions) (*entity.ScanRecord, error)
	// HealthCheck is the quick variant of AnalyzeSinglePage: shorter timeout,
	// classification only, nothing persisted.
	HealthCheck(ctx context.Context, url string) (*entity.HealthReport, error)
	// StartSiteScan queues a site crawl and returns its id without waiting.
	StartSiteScan(ctx context.Context, url string, opts entity.ScanOptions) (string, error)
	// RunSiteScan crawls a site and returns the terminal record.
	RunSiteScan(ctx context.Context, url string, opts entity.ScanOptions) (*entity.ScanRecord, error)
	GetScanRecord(ctx context.Context, id string) (*entity.ScanRecord, error)
	GetLatestScan(ctx context.Context, url string) (*entity.ScanRecord, error)
}

// ScannerConfig holds the tunables of the scanner use case.
type ScannerConfig struct {
	QuickCheckTimeout time.Duration
	PageLoadTimeout   time.Duration
	NamespacePrefix   string
	DefaultMaxPages   int
	DefaultCrawlDepth int
	MaxPagesLimit     int
	MaxCrawlDepth     int
}

type scannerUseCase struct {
	cfg     ScannerConfig
	pages   *pageScanner
	crawler *SiteCrawler
	store   repository.ScanRepository
	archive repository.ScanArchiveRepository
	pool    *ScanPool
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewScanner creates the scanner use case. archive, sitemaps and pool may be
// nil; without a pool StartSiteScan runs each scan on its own goroutine.
func NewScanner(
	cfg ScannerConfig,
	fetcher repository.PageFetcher,
	sitemaps repository.SitemapRepository,
	store repository.ScanRepository,
	archive repository.ScanArchiveRepository,
	pool *ScanPool,
	m *metrics.Metrics,
	logger *zap.Logger,
) Scanner {
	if cfg.DefaultMaxPages <= 0 {
		cfg.DefaultMaxPages = DefaultMaxPages
	}
	if cfg.DefaultCrawlDepth <= 0 {
		cfg.DefaultCrawlDepth = DefaultCrawlDepth
	}
	return &scannerUseCase{
		cfg:     cfg,
		pages:   &pageScanner{fetcher: fetcher, metrics: m, logger: logger},
		crawler: NewSiteCrawler(fetcher, sitemaps, m, logger, cfg.PageLoadTimeout),
		store:   store,
		archive: archive,
		pool:    pool,
		metrics: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (uc *scannerUseCase) AnalyzeSinglePage(ctx context.Context, rawURL string, opts entity.ScanOptions) (*entity.ScanRecord, error) {
	pageURL, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	record := uc.newRecord(pageURL, entity.ScanTypeSinglePage, opts)
	record.Status = entity.ScanStatusRunning
	uc.save(ctx, record)

	page, fetched, err := uc.pages.scan(ctx, pageURL, 0, uc.cfg.PageLoadTimeout)
	if err != nil {
		uc.logger.Error("single page analysis failed", zap.String("url", pageURL), zap.Error(err))
		uc.finish(ctx, record, fmt.Errorf("fetch %s: %w", pageURL, err))
		return record, nil
	}
	if opts.DeepScan {
		base := pageURL
		if fetched.URL != "" {
			base = fetched.URL
		}
		page.Links = DiscoverLinks(base, base, fetched.AnchorHrefs)
	}
	record.Pages = append(record.Pages, page)
	uc.finish(ctx, record, nil)
	return record, nil
}

func (uc *scannerUseCase) HealthCheck(ctx context.Context, rawURL string) (*entity.HealthReport, error) {
	pageURL, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	page, _, err := uc.pages.scan(ctx, pageURL, 0, uc.cfg.QuickCheckTimeout)
	if err != nil {
		return nil, fmt.Errorf("health check of %s: %w", pageURL, err)
	}

	issues := CheckConsistency(page.Schemas)
	withoutID := countWithoutID(page.Schemas)
	health := ClassifyHealth(len(page.Schemas), withoutID, len(issues))
	return &entity.HealthReport{
		URL:              pageURL,
		Status:           health.Status,
		CriticalIssues:   health.CriticalIssues,
		SchemasFound:     len(page.Schemas),
		SchemasWithoutID: withoutID,
		IssuesFound:      len(issues),
		Score:            Score(withoutID, len(issues)),
		CheckedAt:        uc.now(),
	}, nil
}

func (uc *scannerUseCase) StartSiteScan(ctx context.Context, rawURL string, opts entity.ScanOptions) (string, error) {
	startURL, err := validateURL(rawURL)
	if err != nil {
		return "", err
	}

	record := uc.newRecord(startURL, entity.ScanTypeSiteScan, uc.siteOptions(opts))
	if err := uc.store.Save(ctx, record); err != nil {
		return "", fmt.Errorf("failed to save scan %s: %w", record.ID, err)
	}

	task := scanTask{run: func(ctx context.Context) { uc.runSiteScan(ctx, record) }}
	if uc.pool == nil {
		go task.run(context.Background())
	} else if err := uc.pool.submit(task); err != nil {
		uc.finish(ctx, record, err)
		return "", err
	}

	uc.logger.Info("site scan queued", zap.String("scan_id", record.ID), zap.String("url", startURL))
	return record.ID, nil
}

func (uc *scannerUseCase) RunSiteScan(ctx context.Context, rawURL string, opts entity.ScanOptions) (*entity.ScanRecord, error) {
	startURL, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}
	record := uc.newRecord(startURL, entity.ScanTypeSiteScan, uc.siteOptions(opts))
	uc.save(ctx, record)
	uc.runSiteScan(ctx, record)
	return record, nil
}

func (uc *scannerUseCase) runSiteScan(ctx context.Context, record *entity.ScanRecord) {
	record.Status = entity.ScanStatusRunning
	uc.save(ctx, record)
	uc.logger.Info("site scan started",
		zap.String("scan_id", record.ID),
		zap.String("url", record.URL),
		zap.Int("max_pages", record.Options.MaxPages),
		zap.Int("crawl_depth", record.Options.Depth(uc.cfg.DefaultCrawlDepth)),
	)

	result, err := uc.crawler.Crawl(ctx, record.URL, record.Options, func(progress *CrawlResult) {
		record.Pages = progress.Pages
		record.Skipped = progress.Skipped
		uc.save(ctx, record)
	})
	if err != nil {
		uc.logger.Error("site scan failed", zap.String("scan_id", record.ID), zap.Error(err))
		uc.finish(ctx, record, err)
		return
	}
	record.Pages = result.Pages
	record.Skipped = result.Skipped
	uc.finish(ctx, record, nil)
}

func (uc *scannerUseCase) GetScanRecord(ctx context.Context, id string) (*entity.ScanRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidScanID
	}
	record, err := uc.store.FindByID(ctx, id)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, repository.ErrScanNotFound) || uc.archive == nil {
		return nil, err
	}
	return uc.archive.FindByID(ctx, id)
}

func (uc *scannerUseCase) GetLatestScan(ctx context.Context, rawURL string) (*entity.ScanRecord, error) {
	key, err := utils.NormalizeURL(rawURL)
	if err != nil {
		return nil, ErrInvalidURL
	}
	return uc.store.FindLatestByURL(ctx, key)
}

func (uc *scannerUseCase) newRecord(url string, scanType entity.ScanType, opts entity.ScanOptions) *entity.ScanRecord {
	return &entity.ScanRecord{
		ID:        uuid.NewString(),
		URL:       url,
		Type:      scanType,
		Status:    entity.ScanStatusPending,
		Options:   opts,
		Pages:     []entity.PageResult{},
		CreatedAt: uc.now(),
	}
}

// siteOptions applies defaults and limits to the crawl budgets. A page budget
// below one and an unset or negative depth select the defaults.
func (uc *scannerUseCase) siteOptions(opts entity.ScanOptions) entity.ScanOptions {
	if opts.MaxPages <= 0 {
		opts.MaxPages = uc.cfg.DefaultMaxPages
	}
	if uc.cfg.MaxPagesLimit > 0 && opts.MaxPages > uc.cfg.MaxPagesLimit {
		opts.MaxPages = uc.cfg.MaxPagesLimit
	}
	depth := opts.Depth(uc.cfg.DefaultCrawlDepth)
	if uc.cfg.MaxCrawlDepth > 0 && depth > uc.cfg.MaxCrawlDepth {
		depth = uc.cfg.MaxCrawlDepth
	}
	opts.CrawlDepth = &depth
	return opts
}

// finish moves the record to its terminal state, stores it and archives it.
func (uc *scannerUseCase) finish(ctx context.Context, record *entity.ScanRecord, scanErr error) {
	if record.Status.IsTerminal() {
		return
	}
	completedAt := uc.now()
	record.CompletedAt = &completedAt
	if scanErr != nil {
		record.Status = entity.ScanStatusFailed
		record.Error = scanErr.Error()
	} else {
		record.Status = entity.ScanStatusCompleted
		record.Analysis = Analyze(record, uc.cfg.NamespacePrefix)
	}
	uc.metrics.ScansTotal.WithLabelValues(string(record.Type), string(record.Status)).Inc()

	uc.save(ctx, record)
	if uc.archive != nil {
		if err := uc.archive.Archive(ctx, record); err != nil {
			uc.logger.Error("failed to archive scan", zap.String("scan_id", record.ID), zap.Error(err))
		}
	}
	uc.logger.Info("scan finished",
		zap.String("scan_id", record.ID),
		zap.String("type", string(record.Type)),
		zap.String("status", string(record.Status)),
		zap.Int("pages", len(record.Pages)),
		zap.Int("skipped", len(record.Skipped)),
	)
}

// save stores progress. A failed write is logged; the scan carries on.
func (uc *scannerUseCase) save(ctx context.Context, record *entity.ScanRecord) {
	if err := uc.store.Save(ctx, record); err != nil {
		uc.logger.Warn("failed to save scan state", zap.String("scan_id", record.ID), zap.Error(err))
	}
}

func validateURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrInvalidURL
	}
	if _, err := utils.ParseAbsolute(rawURL); err != nil {
		return "", ErrInvalidURL
	}
	return rawURL, nil
}
