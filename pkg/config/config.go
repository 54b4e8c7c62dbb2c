package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
	LogFile    string `mapstructure:"LOG_FILE"`

	PostgresURL   string        `mapstructure:"POSTGRES_URL"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	ScanRetention time.Duration `mapstructure:"SCAN_RETENTION"`

	Fetcher           string        `mapstructure:"FETCHER"` // "chromedp" or "http"
	BrowserPoolSize   int           `mapstructure:"BROWSER_POOL_SIZE"`
	QuickCheckTimeout time.Duration `mapstructure:"QUICK_CHECK_TIMEOUT"`
	PageLoadTimeout   time.Duration `mapstructure:"PAGE_LOAD_TIMEOUT"`
	SitemapMaxURLs    int           `mapstructure:"SITEMAP_MAX_URLS"`
	UserAgents        []string      `mapstructure:"USER_AGENTS"`
	Proxies           []string      `mapstructure:"PROXIES"`

	ScanWorkers       int    `mapstructure:"SCAN_WORKERS"`
	ScanQueueSize     int    `mapstructure:"SCAN_QUEUE_SIZE"`
	DefaultMaxPages   int    `mapstructure:"DEFAULT_MAX_PAGES"`
	DefaultCrawlDepth int    `mapstructure:"DEFAULT_CRAWL_DEPTH"`
	MaxPagesLimit     int    `mapstructure:"MAX_PAGES_LIMIT"`
	MaxCrawlDepth     int    `mapstructure:"MAX_CRAWL_DEPTH"`
	IDNamespacePrefix string `mapstructure:"ID_NAMESPACE_PREFIX"`
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing file is fine; production is configured purely through the environment.
	_ = v.ReadInConfig()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SCAN_RETENTION", 7*24*time.Hour)
	v.SetDefault("FETCHER", "chromedp")
	v.SetDefault("BROWSER_POOL_SIZE", 4)
	v.SetDefault("QUICK_CHECK_TIMEOUT", 10*time.Second)
	v.SetDefault("PAGE_LOAD_TIMEOUT", 30*time.Second)
	v.SetDefault("SITEMAP_MAX_URLS", 500)
	v.SetDefault("USER_AGENTS", "")
	v.SetDefault("PROXIES", "")
	v.SetDefault("SCAN_WORKERS", 4)
	v.SetDefault("SCAN_QUEUE_SIZE", 100)
	v.SetDefault("DEFAULT_MAX_PAGES", 25)
	v.SetDefault("DEFAULT_CRAWL_DEPTH", 3)
	v.SetDefault("MAX_PAGES_LIMIT", 100)
	v.SetDefault("MAX_CRAWL_DEPTH", 5)
	v.SetDefault("ID_NAMESPACE_PREFIX", "schema:")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.UserAgents = splitList(v.GetString("USER_AGENTS"))
	cfg.Proxies = splitList(v.GetString("PROXIES"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.Fetcher {
	case "chromedp", "http":
	default:
		return fmt.Errorf("FETCHER must be \"chromedp\" or \"http\", got %q", c.Fetcher)
	}
	if c.PageLoadTimeout <= 0 || c.QuickCheckTimeout <= 0 {
		return fmt.Errorf("fetch timeouts must be positive")
	}
	if c.ScanWorkers <= 0 {
		return fmt.Errorf("SCAN_WORKERS must be positive, got %d", c.ScanWorkers)
	}
	return nil
}

// splitList splits a "|"-separated value; user agents contain commas.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
