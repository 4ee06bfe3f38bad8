package markup

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingExtraction(t *testing.T) {
	input := `# Getting Started

Intro text.

## Install

Run the installer.

### Linux

Use the tarball.

## Configure

Edit the file.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "getting-started.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "Getting Started" {
		t.Errorf("expected title from h1, got %q", doc.Title)
	}

	wantDepths := []int{1, 2, 3, 2}
	wantAnchors := []string{"#getting-started", "#install", "#linux", "#configure"}
	if len(doc.Headings) != len(wantDepths) {
		t.Fatalf("expected %d headings, got %d", len(wantDepths), len(doc.Headings))
	}
	for i, h := range doc.Headings {
		if h.Depth != wantDepths[i] {
			t.Errorf("heading %d: expected depth %d, got %d", i, wantDepths[i], h.Depth)
		}
		if h.Anchor != wantAnchors[i] {
			t.Errorf("heading %d: expected anchor %q, got %q", i, wantAnchors[i], h.Anchor)
		}
	}
}

func TestMarkdownParser_RenderedHTMLCarriesAnchors(t *testing.T) {
	input := "## Install\n\nRun it.\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	html := string(doc.HTML)
	if !strings.Contains(html, `<h2 id="install">`) {
		t.Errorf("expected rendered heading to carry the extracted anchor, got %q", html)
	}
	if !strings.Contains(html, "<p>Run it.</p>") {
		t.Errorf("expected body paragraph in rendered html, got %q", html)
	}
}

func TestMarkdownParser_DuplicateHeadingsGetDistinctAnchors(t *testing.T) {
	input := `## Setup

First.

## Setup

Second.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Headings) != 2 {
		t.Fatalf("expected 2 headings, got %d", len(doc.Headings))
	}
	if doc.Headings[0].Anchor == doc.Headings[1].Anchor {
		t.Fatalf("duplicate headings share anchor %q", doc.Headings[0].Anchor)
	}
	if doc.Headings[1].Anchor != "#setup-2" {
		t.Errorf("expected suffixed anchor #setup-2, got %q", doc.Headings[1].Anchor)
	}
}

func TestMarkdownParser_GFMTable(t *testing.T) {
	input := `## Data

| Name | Value |
|------|-------|
| a    | 1     |
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(doc.HTML), "<table>") {
		t.Errorf("expected GFM table to render, got %q", doc.HTML)
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := `Just some plain text.

Another paragraph here.`

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "release-notes.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Headings) != 0 {
		t.Errorf("expected no headings, got %d", len(doc.Headings))
	}
	if doc.Title != "release notes" {
		t.Errorf("expected filename-derived title, got %q", doc.Title)
	}
	if doc.Words != 7 {
		t.Errorf("expected 7 words, got %d", doc.Words)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Headings) != 0 {
		t.Errorf("expected 0 headings for empty input, got %d", len(doc.Headings))
	}
}
