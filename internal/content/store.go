package content

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/quietpage/folio/internal/markup"
)

// Store holds all loaded site content. Load swaps the whole set under
// a write lock, so readers always see one consistent generation; the
// slices themselves are never mutated after a load.
type Store struct {
	dir        string
	showDrafts bool
	log        *slog.Logger

	mu        sync.RWMutex
	posts     []*Post // Newest first.
	bySlug    map[string]*Post
	docs      []*LibraryDoc
	docBySlug map[string]*LibraryDoc
	projects  []Project
	loadedAt  time.Time
}

// NewStore creates a store over a content directory laid out as
// posts/, library/ and projects.yaml.
func NewStore(dir string, showDrafts bool, log *slog.Logger) *Store {
	return &Store{dir: dir, showDrafts: showDrafts, log: log}
}

// Load reads the whole content directory and swaps it in atomically.
func (s *Store) Load() error {
	posts, err := s.loadPosts(filepath.Join(s.dir, "posts"))
	if err != nil {
		return err
	}
	docs, err := s.loadLibrary(filepath.Join(s.dir, "library"))
	if err != nil {
		return err
	}
	projects, err := LoadProjects(filepath.Join(s.dir, "projects.yaml"))
	if err != nil {
		return err
	}

	bySlug := make(map[string]*Post, len(posts))
	for _, p := range posts {
		bySlug[p.Slug] = p
	}
	docBySlug := make(map[string]*LibraryDoc, len(docs))
	for _, d := range docs {
		docBySlug[d.Slug] = d
	}

	s.mu.Lock()
	s.posts, s.bySlug = posts, bySlug
	s.docs, s.docBySlug = docs, docBySlug
	s.projects = projects
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.log.Info("content loaded",
		"posts", len(posts),
		"library_docs", len(docs),
		"projects", len(projects))
	return nil
}

func (s *Store) loadPosts(dir string) ([]*Post, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read posts dir: %w", err)
	}

	var posts []*Post
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".md" && ext != ".markdown" {
			continue
		}
		p, err := LoadPost(filepath.Join(dir, e.Name()))
		if err != nil {
			s.log.Warn("skipping unparsable post", "file", e.Name(), "error", err)
			continue
		}
		if p.Draft && !s.showDrafts {
			continue
		}
		posts = append(posts, p)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Slug < posts[j].Slug
		}
		return posts[i].Date.After(posts[j].Date)
	})
	return posts, nil
}

func (s *Store) loadLibrary(dir string) ([]*LibraryDoc, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read library dir: %w", err)
	}

	var docs []*LibraryDoc
	for _, e := range entries {
		if e.IsDir() || !markup.IsSupportedExtension(e.Name()) {
			continue
		}
		d, err := LoadLibraryDoc(filepath.Join(dir, e.Name()))
		if err != nil {
			s.log.Warn("skipping unparsable library doc", "file", e.Name(), "error", err)
			continue
		}
		docs = append(docs, d)
	}

	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Title < docs[j].Title })
	return docs, nil
}

// Posts returns all published posts, newest first.
func (s *Store) Posts() []*Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.posts
}

// PostBySlug looks up a single post.
func (s *Store) PostBySlug(slug string) (*Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.bySlug[slug]
	return p, ok
}

// PostsByTag returns posts carrying the tag, newest first.
func (s *Store) PostsByTag(tag string) []*Post {
	tag = strings.ToLower(strings.TrimSpace(tag))
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Post
	for _, p := range s.posts {
		for _, t := range p.Tags {
			if t == tag {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// TagCount pairs a tag with how many posts carry it.
type TagCount struct {
	Tag   string
	Count int
}

// Tags returns every tag in use, alphabetically.
func (s *Store) Tags() []TagCount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, p := range s.posts {
		for _, t := range p.Tags {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

// Related picks up to n other posts sharing the most tags with p,
// newest first among equals.
func (s *Store) Related(p *Post, n int) []*Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := make(map[string]bool, len(p.Tags))
	for _, t := range p.Tags {
		tags[t] = true
	}

	type scored struct {
		post  *Post
		score int
	}
	var candidates []scored
	for _, other := range s.posts {
		if other.Slug == p.Slug {
			continue
		}
		score := 0
		for _, t := range other.Tags {
			if tags[t] {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{other, score})
		}
	}
	// s.posts is already newest-first, so a stable sort keeps recency
	// as the tie-break.
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	out := make([]*Post, len(candidates))
	for i, c := range candidates {
		out[i] = c.post
	}
	return out
}

// Docs returns all library documents, alphabetical by title.
func (s *Store) Docs() []*LibraryDoc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs
}

// DocBySlug looks up a single library document.
func (s *Store) DocBySlug(slug string) (*LibraryDoc, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docBySlug[slug]
	return d, ok
}

// Projects returns the portfolio list, newest year first.
func (s *Store) Projects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects
}

// LoadedAt reports when content was last (re)loaded.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
