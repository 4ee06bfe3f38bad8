package markup

import (
	"bufio"
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"
	"unicode"

	"github.com/quietpage/folio/internal/outline"
)

// TextParser handles plain text files. A short single-line paragraph in
// all capitals is treated as a section heading.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	doc := &Document{Title: titleFromFilename(filename)}
	anchors := newAnchorSet()
	var body strings.Builder

	for _, para := range paragraphs {
		doc.Words += countWords(para)

		if isCapsHeading(para) {
			id := anchors.take(para)
			// Sections hang off the document title, hence depth 2.
			doc.Headings = append(doc.Headings, outline.Heading{
				Depth:  2,
				Text:   para,
				Anchor: "#" + id,
			})
			fmt.Fprintf(&body, "<h2 id=%q>%s</h2>\n", id, html.EscapeString(para))
			continue
		}
		fmt.Fprintf(&body, "<p>%s</p>\n", html.EscapeString(para))
	}

	doc.HTML = template.HTML(body.String())
	return doc, nil
}

// isCapsHeading reports whether a paragraph looks like an ALL-CAPS
// section heading.
func isCapsHeading(para string) bool {
	if strings.Contains(para, "\n") || len(para) > 80 {
		return false
	}
	hasLetter := false
	for _, r := range para {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
