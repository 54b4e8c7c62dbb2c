package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/user/schema-scanner/internal/adapter/chromedp_fetcher"
	"github.com/user/schema-scanner/internal/adapter/http_fetcher"
	"github.com/user/schema-scanner/internal/adapter/memory"
	"github.com/user/schema-scanner/internal/adapter/postgres"
	"github.com/user/schema-scanner/internal/adapter/proxy"
	redis_adapter "github.com/user/schema-scanner/internal/adapter/redis"
	"github.com/user/schema-scanner/internal/adapter/sitemap"
	"github.com/user/schema-scanner/internal/delivery/http/handler"
	"github.com/user/schema-scanner/internal/delivery/http/router"
	"github.com/user/schema-scanner/internal/repository"
	"github.com/user/schema-scanner/internal/usecase"
	"github.com/user/schema-scanner/pkg/config"
	"github.com/user/schema-scanner/pkg/logger"
	"github.com/user/schema-scanner/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("schema-scanner: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log.Info("Logger initialized", zap.String("level", cfg.LogLevel))

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Fetching ---
	pm := proxy.NewManager(cfg.Proxies, cfg.UserAgents)
	var fetcher repository.PageFetcher
	switch cfg.Fetcher {
	case "chromedp":
		browser, err := chromedp_fetcher.NewChromedpFetcher(cfg.BrowserPoolSize, pm, log)
		if err != nil {
			return err
		}
		defer browser.Close()
		fetcher = browser
	default:
		fetcher = http_fetcher.NewHTTPFetcher(pm, log)
	}
	sitemaps := sitemap.NewSitemapRepo(cfg.QuickCheckTimeout, cfg.SitemapMaxURLs, pm, log)
	log.Info("Fetcher initialized", zap.String("fetcher", cfg.Fetcher))

	deps := make(map[string]handler.Pinger)

	// --- Scan store ---
	var store repository.ScanRepository
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error("Unable to connect to Redis", zap.Error(err))
			return err
		}
		redisStore := redis_adapter.NewScanRepo(rdb, cfg.ScanRetention)
		store = redisStore
		deps["redis"] = redisStore
		log.Info("Redis connection established", zap.String("addr", cfg.RedisAddr))
	} else {
		store = memory.NewScanRepo()
		log.Info("Using in-memory scan store")
	}

	// --- Archive ---
	var archive repository.ScanArchiveRepository
	if cfg.PostgresURL != "" {
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("Unable to connect to database", zap.Error(err))
			return err
		}
		defer dbpool.Close()
		pgArchive := postgres.NewScanArchiveRepo(dbpool)
		if err := pgArchive.EnsureSchema(ctx); err != nil {
			log.Error("Unable to prepare database schema", zap.Error(err))
			return err
		}
		archive = pgArchive
		deps["postgres"] = pgArchive
		log.Info("PostgreSQL connection pool established")
	}

	// --- Use Cases ---
	pool := usecase.NewScanPool(cfg.ScanWorkers, cfg.ScanQueueSize, m)
	pool.Start()
	scanner := usecase.NewScanner(usecase.ScannerConfig{
		QuickCheckTimeout: cfg.QuickCheckTimeout,
		PageLoadTimeout:   cfg.PageLoadTimeout,
		NamespacePrefix:   cfg.IDNamespacePrefix,
		DefaultMaxPages:   cfg.DefaultMaxPages,
		DefaultCrawlDepth: cfg.DefaultCrawlDepth,
		MaxPagesLimit:     cfg.MaxPagesLimit,
		MaxCrawlDepth:     cfg.MaxCrawlDepth,
	}, fetcher, sitemaps, store, archive, pool, m, log)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(scanner, deps, log)
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.New(apiHandler, m, registry, log),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting server", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		// In-flight site scans finish before the stores are closed.
		pool.Stop()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return err
	}
	log.Info("Server stopped")
	return nil
}
