package content

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"github.com/quietpage/folio/internal/markup"
	"github.com/quietpage/folio/internal/outline"
)

// frontMatter is the YAML block at the top of a post file.
type frontMatter struct {
	Title   string    `yaml:"title"`
	Date    time.Time `yaml:"date"`
	Tags    []string  `yaml:"tags"`
	Draft   bool      `yaml:"draft"`
	Summary string    `yaml:"summary"`
	Hero    string    `yaml:"hero"`
}

// Post is one blog entry, parsed and ready to render.
type Post struct {
	Slug        string
	Title       string
	Date        time.Time
	Tags        []string
	Draft       bool
	Summary     string
	Hero        string
	HTML        template.HTML
	Headings    []outline.Heading
	Words       int
	ReadingTime int // Minutes.
}

const frontMatterFence = "---"

// splitFrontMatter separates the leading YAML block from the body.
// Files without a fence are all body.
func splitFrontMatter(src []byte) (meta, body []byte) {
	if !bytes.HasPrefix(src, []byte(frontMatterFence+"\n")) &&
		!bytes.HasPrefix(src, []byte(frontMatterFence+"\r\n")) {
		return nil, src
	}
	rest := src[len(frontMatterFence):]
	// Skip the newline after the opening fence.
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[i+1:]
	}
	for _, end := range []string{"\n" + frontMatterFence + "\n", "\n" + frontMatterFence + "\r\n"} {
		if i := bytes.Index(rest, []byte(end)); i >= 0 {
			return rest[:i], rest[i+len(end):]
		}
	}
	if bytes.HasSuffix(rest, []byte("\n"+frontMatterFence)) {
		return rest[:len(rest)-len(frontMatterFence)-1], nil
	}
	return nil, src
}

// LoadPost reads and parses one post file.
func LoadPost(path string) (*Post, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read post: %w", err)
	}

	meta, body := splitFrontMatter(src)

	var fm frontMatter
	if len(meta) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(meta))
		dec.KnownFields(true)
		if err := dec.Decode(&fm); err != nil {
			return nil, fmt.Errorf("parse front matter in %s: %w", filepath.Base(path), err)
		}
	}

	parser := &markup.MarkdownParser{}
	doc, err := parser.Parse(bytes.NewReader(body), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p := &Post{
		Slug:        slug.Make(base),
		Title:       fm.Title,
		Date:        fm.Date,
		Tags:        normalizeTags(fm.Tags),
		Draft:       fm.Draft,
		Summary:     strings.TrimSpace(fm.Summary),
		Hero:        fm.Hero,
		HTML:        doc.HTML,
		Headings:    doc.Headings,
		Words:       doc.Words,
		ReadingTime: ReadingTime(doc.Words),
	}
	if p.Title == "" {
		p.Title = doc.Title
	}
	if p.Summary == "" {
		p.Summary = excerpt(string(body), 200)
	}
	return p, nil
}

func normalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// excerpt takes the first prose paragraph of a markdown body, skipping
// headings and code fences, truncated to limit runes on a word boundary.
func excerpt(body string, limit int) string {
	inFence := false
	for _, para := range strings.Split(body, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		fences := strings.Count(para, "```")
		if inFence {
			if fences%2 == 1 {
				inFence = false
			}
			continue
		}
		if strings.HasPrefix(para, "```") {
			if fences%2 == 1 {
				inFence = true
			}
			continue
		}
		if strings.HasPrefix(para, "#") {
			continue
		}
		text := strings.Join(strings.Fields(para), " ")
		return truncateWords(text, limit)
	}
	return ""
}

func truncateWords(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
