package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quietpage/folio/internal/comments"
	"github.com/quietpage/folio/internal/content"
)

const relatedPostCount = 3

func (s *Server) renderError(w http.ResponseWriter, err error) {
	s.log.Error("render failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	renderer, _ := s.current()
	if err := renderer.Home(w, s.store.Posts(), s.store.Projects()); err != nil {
		s.renderError(w, err)
	}
}

// handleBlogIndex serves /blog and /blog/page/{page}.
func (s *Server) handleBlogIndex(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := chi.URLParam(r, "page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.handleNotFound(w, r)
			return
		}
		page = n
	}

	renderer, pageSize := s.current()
	pg := content.Paginate(s.store.Posts(), page, pageSize)
	if page > 1 && len(pg.Posts) == 0 {
		s.handleNotFound(w, r)
		return
	}
	if err := renderer.BlogIndex(w, pg); err != nil {
		s.renderError(w, err)
	}
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	p, ok := s.store.PostBySlug(slug)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	renderer, _ := s.current()

	// Comments are best-effort: the page renders without them on error.
	var comms []comments.Comment
	showComments := s.comments.Enabled()
	if showComments {
		var err error
		comms, err = s.comments.ForPost(r.Context(), slug)
		if err != nil {
			s.log.Warn("comments unavailable", "slug", slug, "error", err)
			comms = nil
		}
	}

	if err := renderer.Post(w, p, s.store.Related(p, relatedPostCount), comms, showComments); err != nil {
		s.renderError(w, err)
	}
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	tag := strings.ToLower(chi.URLParam(r, "tag"))
	posts := s.store.PostsByTag(tag)
	if len(posts) == 0 {
		s.handleNotFound(w, r)
		return
	}
	renderer, _ := s.current()
	if err := renderer.Tag(w, tag, posts); err != nil {
		s.renderError(w, err)
	}
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	renderer, _ := s.current()
	if err := renderer.Projects(w, s.store.Projects()); err != nil {
		s.renderError(w, err)
	}
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	renderer, _ := s.current()
	if err := renderer.Library(w, s.store.Docs()); err != nil {
		s.renderError(w, err)
	}
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	doc, ok := s.store.DocBySlug(slug)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	renderer, _ := s.current()
	if err := renderer.Document(w, doc); err != nil {
		s.renderError(w, err)
	}
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	renderer, _ := s.current()
	xml, err := renderer.Feed(s.store.Posts())
	if err != nil {
		s.renderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(xml))
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	renderer, pageSize := s.current()
	posts := s.store.Posts()
	pageCount := content.Paginate(posts, 1, pageSize).PageCount

	xml, err := renderer.Sitemap(posts, s.store.Docs(), s.store.Tags(), pageCount)
	if err != nil {
		s.renderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write([]byte(xml))
}

// handleNotFound serves JSON under /api/ and the 404 page elsewhere.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	renderer, _ := s.current()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := renderer.NotFound(w); err != nil {
		s.log.Error("render failed", "error", err)
	}
}
