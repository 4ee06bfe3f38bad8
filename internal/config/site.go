package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Site is the identity half of configuration: who the site belongs to
// and how pages present themselves. It lives in site.yaml inside the
// content directory so the watcher picks up edits.
type Site struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"base_url"`
	Theme       string `yaml:"theme"` // Class hook on <body>.

	Nav    []Link `yaml:"nav"`
	Social []Link `yaml:"social"`

	TOC      TOC `yaml:"toc"`
	PageSize int `yaml:"page_size"`
}

// Link is a labeled URL for nav bars and social icon rows.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
	Icon  string `yaml:"icon"`
}

// TOC configures the in-page table of contents on post and library
// pages. Zero depth bounds fall back to the outline defaults (1..6).
type TOC struct {
	MinDepth    int      `yaml:"min_depth"`
	MaxDepth    int      `yaml:"max_depth"`
	Exclude     []string `yaml:"exclude"`
	Collapsible bool     `yaml:"collapsible"`
	Open        bool     `yaml:"open"`
}

// DefaultSite is what a site looks like before site.yaml says otherwise.
func DefaultSite() Site {
	return Site{
		Title: "folio",
		Theme: "light",
	}
}

// SitePath resolves where site.yaml lives for this config.
func (c Config) SitePath() string {
	if c.SiteFile != "" {
		return c.SiteFile
	}
	return filepath.Join(c.ContentDir, "site.yaml")
}

// LoadSite reads site.yaml strictly. A missing file yields the default
// site rather than an error.
func LoadSite(path string) (Site, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSite(), nil
	}
	if err != nil {
		return Site{}, fmt.Errorf("read site config: %w", err)
	}

	site := DefaultSite()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&site); err != nil {
		return Site{}, fmt.Errorf("parse site config: %w", err)
	}
	if err := site.validate(); err != nil {
		return Site{}, err
	}
	return site, nil
}

func (s Site) validate() error {
	if s.Title == "" {
		return fmt.Errorf("site title must not be empty")
	}
	if s.TOC.MinDepth < 0 || s.TOC.MaxDepth < 0 {
		return fmt.Errorf("toc depth bounds must not be negative")
	}
	if s.TOC.MaxDepth != 0 && s.TOC.MinDepth > s.TOC.MaxDepth {
		return fmt.Errorf("toc min_depth %d exceeds max_depth %d", s.TOC.MinDepth, s.TOC.MaxDepth)
	}
	if s.PageSize < 0 {
		return fmt.Errorf("page_size must not be negative")
	}
	return nil
}

// Resolve layers configuration: explicit env vars win, then site.yaml,
// then built-in defaults.
func Resolve(cfg Config, site Site) Config {
	if os.Getenv("FOLIO_PAGE_SIZE") == "" && site.PageSize > 0 {
		cfg.PageSize = site.PageSize
	}
	if os.Getenv("FOLIO_BASE_URL") == "" && site.BaseURL != "" {
		cfg.BaseURL = site.BaseURL
	}
	return cfg
}
