package content

import (
	"github.com/quietpage/folio/internal/outline"
)

// SearchEntry is one row of the client-side search index: a page, or a
// heading within one together with its ancestor path.
type SearchEntry struct {
	Page   string   `json:"page"` // Route, e.g. "/blog/my-post".
	Title  string   `json:"title"`
	Anchor string   `json:"anchor,omitempty"`
	Path   []string `json:"path,omitempty"` // Ancestor heading titles.
}

// SearchIndex flattens every post and library document into search
// entries: one per page plus one per outline heading.
func (s *Store) SearchIndex(opts outline.Options) []SearchEntry {
	s.mu.RLock()
	posts, docs := s.posts, s.docs
	s.mu.RUnlock()

	var entries []SearchEntry
	add := func(route, title string, headings []outline.Heading) {
		entries = append(entries, SearchEntry{Page: route, Title: title})
		forest := outline.Build(headings, opts)
		outline.Walk(forest, func(n *outline.Node, ancestors []*outline.Node) {
			var path []string
			for _, a := range ancestors {
				path = append(path, a.Text)
			}
			entries = append(entries, SearchEntry{
				Page:   route,
				Title:  n.Text,
				Anchor: n.Anchor,
				Path:   path,
			})
		})
	}

	for _, p := range posts {
		add("/blog/"+p.Slug, p.Title, p.Headings)
	}
	for _, d := range docs {
		add("/library/"+d.Slug, d.Title, d.Headings)
	}
	return entries
}
