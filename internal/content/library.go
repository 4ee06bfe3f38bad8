package content

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"github.com/quietpage/folio/internal/markup"
	"github.com/quietpage/folio/internal/outline"
)

// LibraryDoc is a long-form document from the library directory, in any
// format the markup parsers handle.
type LibraryDoc struct {
	Slug     string
	Filename string
	Title    string
	HTML     template.HTML
	Headings []outline.Heading
	Words    int
}

// LoadLibraryDoc parses one library file with the parser matching its
// extension.
func LoadLibraryDoc(path string) (*LibraryDoc, error) {
	parser, err := markup.ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open library doc: %w", err)
	}
	defer f.Close()

	doc, err := parser.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &LibraryDoc{
		Slug:     slug.Make(base),
		Filename: filepath.Base(path),
		Title:    doc.Title,
		HTML:     doc.HTML,
		Headings: doc.Headings,
		Words:    doc.Words,
	}, nil
}
