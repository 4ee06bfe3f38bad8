package markup

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/quietpage/folio/internal/outline"
)

// PDFParser handles PDF files. It tries the Go library first, then
// falls back to pdftotext if available.
type PDFParser struct{}

func (p *PDFParser) Parse(r io.Reader, filename string) (*Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "folio-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	doc := &Document{
		Title: titleFromFilename(filename),
		Words: countWords(text),
	}
	anchors := newAnchorSet()
	var body strings.Builder

	for i, page := range splitPages(text) {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		title := fmt.Sprintf("Page %d", i+1)
		id := anchors.take(title)
		// Pages hang off the document title, hence depth 2.
		doc.Headings = append(doc.Headings, outline.Heading{
			Depth:  2,
			Text:   title,
			Anchor: "#" + id,
		})
		fmt.Fprintf(&body, "<h2 id=%q>%s</h2>\n", id, html.EscapeString(title))
		for _, para := range textParagraphs(page) {
			fmt.Fprintf(&body, "<p>%s</p>\n", html.EscapeString(para))
		}
	}

	doc.HTML = template.HTML(body.String())
	return doc, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f") // Form feed as page separator.
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

func splitPages(text string) []string {
	return strings.Split(text, "\f")
}
