package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr string

	// Content locations
	ContentDir string
	StaticDir  string
	OutDir     string
	SiteFile   string // Defaults to <ContentDir>/site.yaml.

	// Rendering
	BaseURL    string
	PageSize   int
	ShowDrafts bool

	// Serve mode
	Watch         bool
	WatchDebounce time.Duration

	// Static export
	BuildWorkers int

	// Admin endpoints
	AdminToken string

	// Newsletter provider
	NewsletterURL    string
	NewsletterAPIKey string

	// Comments provider
	CommentsURL   string
	CommentsToken string

	// Timeouts
	RequestTimeout time.Duration
	ClientTimeout  time.Duration
}

func Load() Config {
	cfg := Config{
		Addr: envOr("FOLIO_ADDR", ":8080"),

		ContentDir: envOr("FOLIO_CONTENT_DIR", "content"),
		StaticDir:  envOr("FOLIO_STATIC_DIR", "static"),
		OutDir:     envOr("FOLIO_OUT_DIR", "public"),
		SiteFile:   os.Getenv("FOLIO_SITE_FILE"),

		BaseURL:    envOr("FOLIO_BASE_URL", "http://localhost:8080"),
		PageSize:   envInt("FOLIO_PAGE_SIZE", 10),
		ShowDrafts: envBool("FOLIO_SHOW_DRAFTS", false),

		Watch:         envBool("FOLIO_WATCH", false),
		WatchDebounce: envDuration("FOLIO_WATCH_DEBOUNCE", 500*time.Millisecond),

		BuildWorkers: envInt("FOLIO_BUILD_WORKERS", 4),

		AdminToken: os.Getenv("FOLIO_ADMIN_TOKEN"),

		NewsletterURL:    os.Getenv("FOLIO_NEWSLETTER_URL"),
		NewsletterAPIKey: os.Getenv("FOLIO_NEWSLETTER_KEY"),

		CommentsURL:   os.Getenv("FOLIO_COMMENTS_URL"),
		CommentsToken: os.Getenv("FOLIO_COMMENTS_TOKEN"),

		RequestTimeout: envDuration("FOLIO_REQUEST_TIMEOUT", 15*time.Second),
		ClientTimeout:  envDuration("FOLIO_CLIENT_TIMEOUT", 10*time.Second),
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.BuildWorkers <= 0 {
		cfg.BuildWorkers = 4
	}
	if cfg.WatchDebounce <= 0 {
		cfg.WatchDebounce = 500 * time.Millisecond
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.ClientTimeout <= 0 {
		cfg.ClientTimeout = 10 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("FOLIO_CONTENT_DIR must not be empty")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("FOLIO_BASE_URL %q is not an absolute URL", c.BaseURL)
	}
	if c.NewsletterURL != "" && c.NewsletterAPIKey == "" {
		return fmt.Errorf("FOLIO_NEWSLETTER_KEY is required when FOLIO_NEWSLETTER_URL is set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
