package markup

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/quietpage/folio/internal/outline"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(ghtml.WithUnsafe()),
	)

	// Heading IDs come from our slug generator so rendered anchors and
	// the extracted heading records always agree.
	pctx := parser.NewContext(parser.WithIDs(&slugIDs{anchors: newAnchorSet()}))
	root := md.Parser().Parse(text.NewReader(src), parser.WithContext(pctx))

	fallbackTitle := titleFromFilename(filename)
	doc := &Document{
		Title: fallbackTitle,
		Words: countWords(string(src)),
	}

	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		title := string(h.Text(src))
		anchor := ""
		if id, ok := h.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				anchor = "#" + string(b)
			}
		}
		doc.Headings = append(doc.Headings, outline.Heading{
			Depth:  h.Level,
			Text:   title,
			Anchor: anchor,
		})
		if h.Level == 1 && doc.Title == fallbackTitle {
			doc.Title = title
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown ast: %w", err)
	}

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, src, root); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	doc.HTML = template.HTML(buf.String())

	return doc, nil
}

// slugIDs plugs the shared anchor generator into goldmark's auto
// heading IDs.
type slugIDs struct {
	anchors *anchorSet
}

func (s *slugIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	return []byte(s.anchors.take(string(value)))
}

func (s *slugIDs) Put(value []byte) {
	s.anchors.reserve(string(value))
}
