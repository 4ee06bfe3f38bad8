package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/quietpage/folio/internal/config"
	"github.com/quietpage/folio/internal/content"
	"github.com/quietpage/folio/internal/outline"
	"github.com/quietpage/folio/internal/site"
)

const relatedPostCount = 3

// page is one unit of build work: a route, where its bytes land in the
// output tree, and how to produce them.
type page struct {
	route  string
	out    string
	render func(io.Writer) error
}

// Builder renders every route of the site into a directory of plain
// files. Unchanged pages are left alone so rsync-style deploys stay
// small.
type Builder struct {
	renderer *site.Renderer
	store    *content.Store
	siteCfg  config.Site
	log      *slog.Logger

	outDir    string
	staticDir string
	pageSize  int
	workers   int
}

// NewBuilder resolves the site configuration and prepares a build over
// an already loaded store.
func NewBuilder(cfg config.Config, store *content.Store, log *slog.Logger) (*Builder, error) {
	siteCfg, err := config.LoadSite(cfg.SitePath())
	if err != nil {
		return nil, err
	}
	resolved := config.Resolve(cfg, siteCfg)
	renderer, err := site.New(siteCfg, resolved)
	if err != nil {
		return nil, err
	}

	workers := resolved.BuildWorkers
	if workers < 1 {
		workers = 1
	}
	return &Builder{
		renderer:  renderer,
		store:     store,
		siteCfg:   siteCfg,
		log:       log,
		outDir:    resolved.OutDir,
		staticDir: resolved.StaticDir,
		pageSize:  resolved.PageSize,
		workers:   workers,
	}, nil
}

// Build renders all pages through a worker pool. Page failures are
// collected rather than aborting in-flight work; the build as a whole
// fails if any page did.
func (b *Builder) Build(ctx context.Context) (ReportSnapshot, error) {
	start := time.Now()
	report := NewReport()

	pages, err := b.pages()
	if err != nil {
		return report.Snapshot(), err
	}

	jobs := make(chan page)
	var wg sync.WaitGroup
	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case pg, ok := <-jobs:
					if !ok {
						return
					}
					b.writePage(report, pg)
				}
			}
		}()
	}

feed:
	for _, pg := range pages {
		select {
		case jobs <- pg:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	report.SetDuration(time.Since(start))
	snap := report.Snapshot()

	if err := ctx.Err(); err != nil {
		return snap, err
	}
	if snap.Failed > 0 {
		return snap, fmt.Errorf("build finished with %d failed pages", snap.Failed)
	}
	b.log.Info("build complete",
		"pages", snap.Pages(),
		"written", snap.Written,
		"skipped", snap.Skipped,
		"duration_ms", snap.DurationMs)
	return snap, nil
}

// pages enumerates every route the server would answer, plus the static
// assets and the conventional 404.html.
func (b *Builder) pages() ([]page, error) {
	posts := b.store.Posts()
	docs := b.store.Docs()
	projects := b.store.Projects()
	tags := b.store.Tags()

	var pages []page
	add := func(route string, render func(io.Writer) error) {
		pages = append(pages, page{route: route, out: outputPath(route), render: render})
	}

	add("/", func(w io.Writer) error {
		return b.renderer.Home(w, posts, projects)
	})

	pageCount := content.Paginate(posts, 1, b.pageSize).PageCount
	for n := 1; n <= pageCount; n++ {
		pg := content.Paginate(posts, n, b.pageSize)
		add(site.BlogPath(n), func(w io.Writer) error {
			return b.renderer.BlogIndex(w, pg)
		})
	}

	for _, p := range posts {
		p := p
		add("/blog/"+p.Slug, func(w io.Writer) error {
			return b.renderer.Post(w, p, b.store.Related(p, relatedPostCount), nil, false)
		})
	}

	for _, tc := range tags {
		tag := tc.Tag
		add("/tags/"+tag, func(w io.Writer) error {
			return b.renderer.Tag(w, tag, b.store.PostsByTag(tag))
		})
	}

	add("/projects", func(w io.Writer) error {
		return b.renderer.Projects(w, projects)
	})
	add("/library", func(w io.Writer) error {
		return b.renderer.Library(w, docs)
	})
	for _, d := range docs {
		d := d
		add("/library/"+d.Slug, func(w io.Writer) error {
			return b.renderer.Document(w, d)
		})
	}

	add("/feed.xml", func(w io.Writer) error {
		xml, err := b.renderer.Feed(posts)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, xml)
		return err
	})
	add("/sitemap.xml", func(w io.Writer) error {
		xml, err := b.renderer.Sitemap(posts, docs, tags, pageCount)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, xml)
		return err
	})
	add("/search-index.json", b.renderSearchIndex)
	add("/404.html", b.renderer.NotFound)

	assets, err := b.staticPages()
	if err != nil {
		return nil, err
	}
	return append(pages, assets...), nil
}

// renderSearchIndex emits the same payload the live /api/search-index
// endpoint serves, so the front-end search works against either.
func (b *Builder) renderSearchIndex(w io.Writer) error {
	entries := b.store.SearchIndex(outline.Options{
		MinDepth: b.siteCfg.TOC.MinDepth,
		MaxDepth: b.siteCfg.TOC.MaxDepth,
		Exclude:  b.siteCfg.TOC.Exclude,
	})
	return json.NewEncoder(w).Encode(map[string]any{
		"count":   len(entries),
		"entries": entries,
	})
}

// staticPages turns every file under the static dir into a copy job. A
// missing static dir simply means no assets.
func (b *Builder) staticPages() ([]page, error) {
	if b.staticDir == "" {
		return nil, nil
	}
	if _, err := os.Stat(b.staticDir); os.IsNotExist(err) {
		return nil, nil
	}

	var pages []page
	err := filepath.WalkDir(b.staticDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(b.staticDir, p)
		if err != nil {
			return err
		}
		pages = append(pages, page{
			route: "/static/" + filepath.ToSlash(rel),
			out:   filepath.Join("static", rel),
			render: func(w io.Writer) error {
				f, err := os.Open(p)
				if err != nil {
					return err
				}
				defer f.Close()
				_, err = io.Copy(w, f)
				return err
			},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk static dir: %w", err)
	}
	return pages, nil
}

// writePage renders one page and writes it out unless the bytes on disk
// already match.
func (b *Builder) writePage(report *Report, pg page) {
	start := time.Now()

	var buf bytes.Buffer
	if err := pg.render(&buf); err != nil {
		b.log.Error("render failed", "route", pg.route, "error", err)
		report.AddFailed(pg.route, err)
		return
	}

	dst := filepath.Join(b.outDir, pg.out)
	if existing, err := os.ReadFile(dst); err == nil && ContentHashHex(existing) == ContentHashHex(buf.Bytes()) {
		report.AddSkipped(time.Since(start))
		return
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		b.log.Error("write failed", "route", pg.route, "error", err)
		report.AddFailed(pg.route, err)
		return
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
		b.log.Error("write failed", "route", pg.route, "error", err)
		report.AddFailed(pg.route, err)
		return
	}
	report.AddWritten(time.Since(start))
}

// outputPath maps a served route to its file in the output tree. Routes
// without an extension become directory indexes so links keep working
// under a plain file server.
func outputPath(route string) string {
	if route == "/" {
		return "index.html"
	}
	trimmed := strings.TrimPrefix(route, "/")
	if path.Ext(trimmed) != "" {
		return filepath.FromSlash(trimmed)
	}
	return filepath.FromSlash(trimmed + "/index.html")
}
