package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/quietpage/folio/internal/comments"
	"github.com/quietpage/folio/internal/config"
	"github.com/quietpage/folio/internal/content"
	"github.com/quietpage/folio/internal/outline"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page templates paired with base.html. Each defines a "content" block.
var pageNames = []string{"home", "list", "post", "tag", "projects", "library", "document", "notfound"}

const (
	homeRecentPosts  = 5
	homeProjectCount = 3
)

// Renderer turns store content into full HTML pages using the embedded
// layouts. It is safe for concurrent use; all state is set at construction.
type Renderer struct {
	site       config.Site
	baseURL    string
	newsletter bool
	pages      map[string]*template.Template
}

func New(site config.Site, cfg config.Config) (*Renderer, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &Renderer{
		site:       site,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		newsletter: cfg.NewsletterURL != "" && cfg.NewsletterAPIKey != "",
		pages:      pages,
	}, nil
}

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string { return t.Format("Jan 2, 2006") },
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("base.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// Frame carries the fields every layout needs.
type Frame struct {
	Site       config.Site
	Title      string
	Canonical  string
	Year       int
	Newsletter bool
}

func (r *Renderer) frame(title, path string) Frame {
	f := Frame{
		Site:       r.site,
		Title:      title,
		Year:       time.Now().Year(),
		Newsletter: r.newsletter,
	}
	if path != "" {
		f.Canonical = r.baseURL + path
	}
	return f
}

// render executes a page template into a buffer first so a template error
// never leaves a partial page on the writer.
func (r *Renderer) render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page template %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// TOC builds the in-page table of contents fragment for a document's
// headings, honoring the site's outline settings.
func (r *Renderer) TOC(headings []outline.Heading) (template.HTML, error) {
	forest := outline.Build(headings, outline.Options{
		MinDepth: r.site.TOC.MinDepth,
		MaxDepth: r.site.TOC.MaxDepth,
		Exclude:  r.site.TOC.Exclude,
	})
	frag, err := outline.Render(forest, outline.RenderOptions{
		Collapsible: r.site.TOC.Collapsible,
		Open:        r.site.TOC.Open,
		ListClass:   "toc",
	})
	if err != nil {
		return "", fmt.Errorf("render toc: %w", err)
	}
	return template.HTML(frag), nil
}

type homeView struct {
	Frame
	Posts    []*content.Post
	Projects []content.Project
}

// Home renders the landing page with recent posts and a few projects.
func (r *Renderer) Home(w io.Writer, posts []*content.Post, projects []content.Project) error {
	if len(posts) > homeRecentPosts {
		posts = posts[:homeRecentPosts]
	}
	if len(projects) > homeProjectCount {
		projects = projects[:homeProjectCount]
	}
	return r.render(w, "home", homeView{
		Frame:    r.frame("", "/"),
		Posts:    posts,
		Projects: projects,
	})
}

type listView struct {
	Frame
	Page    content.Page
	PrevURL string
	NextURL string
}

// BlogPath returns the route for one page of the blog index.
func BlogPath(page int) string {
	if page <= 1 {
		return "/blog"
	}
	return fmt.Sprintf("/blog/page/%d", page)
}

// BlogIndex renders one page of the reverse-chronological post list.
func (r *Renderer) BlogIndex(w io.Writer, page content.Page) error {
	title := "Blog"
	if page.Number > 1 {
		title = fmt.Sprintf("Blog, page %d", page.Number)
	}
	v := listView{
		Frame: r.frame(title, BlogPath(page.Number)),
		Page:  page,
	}
	if page.HasPrev() {
		v.PrevURL = BlogPath(page.Number - 1)
	}
	if page.HasNext() {
		v.NextURL = BlogPath(page.Number + 1)
	}
	return r.render(w, "list", v)
}

type postView struct {
	Frame
	Post         *content.Post
	TOC          template.HTML
	Related      []*content.Post
	Comments     []comments.Comment
	ShowComments bool
}

// Post renders a single post page with its table of contents.
func (r *Renderer) Post(w io.Writer, p *content.Post, related []*content.Post, comms []comments.Comment, showComments bool) error {
	toc, err := r.TOC(p.Headings)
	if err != nil {
		return err
	}
	return r.render(w, "post", postView{
		Frame:        r.frame(p.Title, "/blog/"+p.Slug),
		Post:         p,
		TOC:          toc,
		Related:      related,
		Comments:     comms,
		ShowComments: showComments,
	})
}

type tagView struct {
	Frame
	Tag   string
	Posts []*content.Post
}

// Tag renders the post list for one tag.
func (r *Renderer) Tag(w io.Writer, tag string, posts []*content.Post) error {
	return r.render(w, "tag", tagView{
		Frame: r.frame("Tagged "+tag, "/tags/"+tag),
		Tag:   tag,
		Posts: posts,
	})
}

type projectsView struct {
	Frame
	Projects []content.Project
}

// Projects renders the full project list.
func (r *Renderer) Projects(w io.Writer, projects []content.Project) error {
	return r.render(w, "projects", projectsView{
		Frame:    r.frame("Projects", "/projects"),
		Projects: projects,
	})
}

type libraryView struct {
	Frame
	Docs []*content.LibraryDoc
}

// Library renders the document library index.
func (r *Renderer) Library(w io.Writer, docs []*content.LibraryDoc) error {
	return r.render(w, "library", libraryView{
		Frame: r.frame("Library", "/library"),
		Docs:  docs,
	})
}

type documentView struct {
	Frame
	Doc *content.LibraryDoc
	TOC template.HTML
}

// Document renders a single library document with its table of contents.
func (r *Renderer) Document(w io.Writer, doc *content.LibraryDoc) error {
	toc, err := r.TOC(doc.Headings)
	if err != nil {
		return err
	}
	return r.render(w, "document", documentView{
		Frame: r.frame(doc.Title, "/library/"+doc.Slug),
		Doc:   doc,
		TOC:   toc,
	})
}

// NotFound renders the 404 page.
func (r *Renderer) NotFound(w io.Writer) error {
	return r.render(w, "notfound", struct{ Frame }{r.frame("Not Found", "")})
}
