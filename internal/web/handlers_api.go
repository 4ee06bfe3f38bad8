package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/quietpage/folio/internal/newsletter"
	"github.com/quietpage/folio/internal/outline"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"requests": s.stats.Snapshot(),
		"content": map[string]any{
			"posts":        len(s.store.Posts()),
			"library_docs": len(s.store.Docs()),
			"projects":     len(s.store.Projects()),
			"tags":         len(s.store.Tags()),
			"loaded_at":    s.store.LoadedAt().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleSearchIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	opts := outline.Options{
		MinDepth: s.siteCfg.TOC.MinDepth,
		MaxDepth: s.siteCfg.TOC.MaxDepth,
		Exclude:  s.siteCfg.TOC.Exclude,
	}
	s.mu.RUnlock()

	entries := s.store.SearchIndex(opts)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":   len(entries),
		"entries": entries,
	})
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if !s.newsletter.Enabled() {
		jsonError(w, "newsletter not configured", http.StatusNotFound)
		return
	}

	var email string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		email = req.Email
	} else {
		email = r.FormValue("email")
	}
	if email == "" {
		jsonError(w, "email is required", http.StatusBadRequest)
		return
	}

	if err := s.newsletter.Subscribe(r.Context(), email); err != nil {
		switch {
		case errors.Is(err, newsletter.ErrDisabled):
			jsonError(w, "newsletter not configured", http.StatusNotFound)
		case newsletter.IsRetryable(err):
			s.log.Error("newsletter provider unavailable", "error", err)
			jsonError(w, "provider unavailable, try again later", http.StatusBadGateway)
		default:
			jsonError(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "pending confirmation"})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(); err != nil {
		s.log.Error("reload failed", "error", err)
		jsonError(w, "reload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":       "reloaded",
		"posts":        len(s.store.Posts()),
		"library_docs": len(s.store.Docs()),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
