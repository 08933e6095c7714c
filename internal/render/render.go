// Package render writes indexed documents as HTML, DOCX or Typst.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/cpdgen/internal/doctree"
)

// ErrNotIndexed is returned for documents that have not been through the
// indexer; without ids and numbers references cannot be rendered.
var ErrNotIndexed = errors.New("render: document has not been indexed")

// Renderer writes a document in one output format.
type Renderer interface {
	Render(w io.Writer, doc *doctree.Document) error
}

// Formats lists the supported output formats.
var Formats = []string{"html", "docx", "typst"}

// ForFormat returns the renderer for a format name.
func ForFormat(name string) (Renderer, error) {
	switch strings.ToLower(name) {
	case "html":
		return &HTMLRenderer{}, nil
	case "docx":
		return &DOCXRenderer{}, nil
	case "typst", "typ":
		return &TypstRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %q", name)
	}
}

// Extension returns the file extension, with dot, for a format name.
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "docx":
		return ".docx"
	case "typst", "typ":
		return ".typ"
	default:
		return ".html"
	}
}

// ContentType returns the MIME type for a format name.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "typst", "typ":
		return "text/plain; charset=utf-8"
	default:
		return "text/html; charset=utf-8"
	}
}

// Figures returns the figures of doc in reading order.
func Figures(doc *doctree.Document) []*doctree.Figure {
	var figs []*doctree.Figure
	_ = doc.Walk(func(s doctree.Segment) error {
		if f, ok := s.(*doctree.Figure); ok && f.Diagram != nil {
			figs = append(figs, f)
		}
		return nil
	})
	return figs
}

// FigureFile is the file name a figure's SVG is written to.
func FigureFile(f *doctree.Figure) string {
	return f.ID + ".svg"
}

// caption is the numbered caption of a table or figure.
func caption(s doctree.Segment) string {
	label := fmt.Sprintf("%s %s", s.Kind(), s.Head().Numbering())
	if t := s.Head().Title; t != "" {
		return label + ": " + t
	}
	return label
}

// heading is the numbered title of a section.
func heading(s doctree.Segment) string {
	return s.Head().Numbering() + " " + doctree.Title(s)
}

func symbolGlyph(s doctree.Symbol) string {
	switch s {
	case doctree.Warning:
		return "!"
	case doctree.Critical:
		return "!!"
	default:
		return "✓"
	}
}
