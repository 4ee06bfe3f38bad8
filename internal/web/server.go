package web

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quietpage/folio/internal/comments"
	"github.com/quietpage/folio/internal/config"
	"github.com/quietpage/folio/internal/content"
	"github.com/quietpage/folio/internal/newsletter"
	"github.com/quietpage/folio/internal/site"
)

// Server renders the site over HTTP.
type Server struct {
	router     chi.Router
	store      *content.Store
	newsletter *newsletter.Client
	comments   *comments.Client
	stats      *RequestStats
	log        *slog.Logger
	cfg        config.Config

	// Swapped together on reload so a request sees one consistent site.
	mu       sync.RWMutex
	renderer *site.Renderer
	siteCfg  config.Site
	pageSize int
}

// NewServer creates and configures the HTTP server. The store must
// already be loaded.
func NewServer(cfg config.Config, store *content.Store, nl *newsletter.Client, cm *comments.Client, log *slog.Logger) (*Server, error) {
	s := &Server{
		store:      store,
		newsletter: nl,
		comments:   cm,
		stats:      NewRequestStats(time.Hour),
		log:        log,
		cfg:        cfg,
	}
	if err := s.reloadSite(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Reload re-reads the content directory and site configuration. Safe to
// call while serving; requests in flight keep the generation they started
// with.
func (s *Server) Reload() error {
	if err := s.store.Load(); err != nil {
		return err
	}
	return s.reloadSite()
}

func (s *Server) reloadSite() error {
	siteCfg, err := config.LoadSite(s.cfg.SitePath())
	if err != nil {
		return err
	}
	resolved := config.Resolve(s.cfg, siteCfg)
	renderer, err := site.New(siteCfg, resolved)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.renderer = renderer
	s.siteCfg = siteCfg
	s.pageSize = resolved.PageSize
	s.mu.Unlock()
	return nil
}

func (s *Server) current() (*site.Renderer, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderer, s.pageSize
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log, s.stats))

	r.Get("/", s.handleHome)
	r.Get("/blog", s.handleBlogIndex)
	r.Get("/blog/page/{page}", s.handleBlogIndex)
	r.Get("/blog/{slug}", s.handlePost)
	r.Get("/tags/{tag}", s.handleTag)
	r.Get("/projects", s.handleProjects)
	r.Get("/library", s.handleLibrary)
	r.Get("/library/{slug}", s.handleDocument)
	r.Get("/feed.xml", s.handleFeed)
	r.Get("/sitemap.xml", s.handleSitemap)
	r.Get("/healthz", s.handleHealth)

	if s.cfg.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticDir))))
	}

	r.Get("/api/stats", s.handleStats)
	r.Get("/api/search-index", s.handleSearchIndex)
	r.Post("/api/subscribe", s.handleSubscribe)

	// Admin endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.AdminToken, s.log))
		r.Post("/api/reload", s.handleReload)
	})

	r.NotFound(s.handleNotFound)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
