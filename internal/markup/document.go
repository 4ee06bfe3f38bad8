package markup

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"github.com/quietpage/folio/internal/outline"
)

// Document is a parsed file ready for page rendering: the body as HTML
// with stable heading anchors, plus the flat heading sequence the
// outline builder consumes.
type Document struct {
	Title    string
	HTML     template.HTML
	Headings []outline.Heading
	Words    int
}

// anchorSet hands out slug-based anchors, suffixing duplicates so every
// heading in a document gets a distinct target.
type anchorSet struct {
	used map[string]bool
}

func newAnchorSet() *anchorSet {
	return &anchorSet{used: make(map[string]bool)}
}

// take generates an anchor for a heading's text and reserves it.
func (s *anchorSet) take(text string) string {
	base := slug.Make(text)
	if base == "" {
		base = "section"
	}
	id := base
	for n := 2; s.used[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	s.used[id] = true
	return id
}

// reserve records an anchor that already exists in the source document.
func (s *anchorSet) reserve(id string) {
	s.used[id] = true
}

func countWords(s string) int {
	return len(strings.Fields(s))
}

// textParagraphs splits plain text into paragraphs on blank lines.
func textParagraphs(s string) []string {
	var paras []string
	var current strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paras = append(paras, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		paras = append(paras, current.String())
	}
	return paras
}

// titleFromFilename derives a display title when the document itself
// carries none.
func titleFromFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return strings.TrimSpace(base)
}
