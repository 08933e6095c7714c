// Package doctree is a generic hierarchical document: sections, paragraphs,
// tables and figures, with inline spans that may reference other segments.
//
// Segments are numbered and given stable identifiers by the indexer. Until
// then Number is zero, ID is empty and references cannot be resolved.
package doctree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/cpdgen/internal/diagram"
)

// Key is a handle to a segment, assigned when the segment is created.
// The zero Key refers to nothing.
type Key int

// Kind names a segment subtype.
type Kind string

const (
	KindSection   Kind = "Section"
	KindParagraph Kind = "Paragraph"
	KindTable     Kind = "Table"
	KindFigure    Kind = "Figure"
)

// IDPrefix is the tag that starts the stable identifiers of this kind.
func (k Kind) IDPrefix() string {
	switch k {
	case KindSection:
		return "sec"
	case KindParagraph:
		return "par"
	case KindTable:
		return "tab"
	case KindFigure:
		return "fig"
	}
	return strings.ToLower(string(k))
}

// Header is the state shared by all segments.
type Header struct {
	Title    string
	Subtitle string
	Key      Key

	Number int      // 1-based among siblings of the same kind, set by the indexer
	ID     string   // stable identifier, set by the indexer
	Parent *Section // nil for top-level segments
}

// Numbering returns the dotted number path, e.g. "2.1.3".
func (h *Header) Numbering() string {
	num := "??"
	if h.Number > 0 {
		num = fmt.Sprint(h.Number)
	}
	if h.Parent == nil {
		return num
	}
	return h.Parent.Numbering() + "." + num
}

// Level returns the nesting depth; top-level segments are at level 1.
func (h *Header) Level() int {
	level := 1
	for p := h.Parent; p != nil; p = p.Parent {
		level++
	}
	return level
}

// Segment is a block-level part of a document.
type Segment interface {
	Head() *Header
	Kind() Kind
}

// Title returns the segment title, or "<Kind> <numbering>" when it has none.
func Title(s Segment) string {
	if t := s.Head().Title; t != "" {
		return t
	}
	return fmt.Sprintf("%s %s", s.Kind(), s.Head().Numbering())
}

// Section is an ordered container of segments.
type Section struct {
	Header
	Children []Segment
}

func (s *Section) Head() *Header { return &s.Header }
func (s *Section) Kind() Kind    { return KindSection }

// Add appends children and makes s their parent.
func (s *Section) Add(children ...Segment) {
	for _, c := range children {
		c.Head().Parent = s
		s.Children = append(s.Children, c)
	}
}

// Paragraph is a run of inline spans.
type Paragraph struct {
	Header
	Spans []Span
}

func (p *Paragraph) Head() *Header { return &p.Header }
func (p *Paragraph) Kind() Kind    { return KindParagraph }

// Add appends spans.
func (p *Paragraph) Add(spans ...Span) *Paragraph {
	p.Spans = append(p.Spans, spans...)
	return p
}

// Cell returns an untitled paragraph for use in a table.
func Cell(spans ...Span) *Paragraph {
	return &Paragraph{Spans: spans}
}

// ErrColumnCount is returned when a row does not match the table's columns.
var ErrColumnCount = errors.New("doctree: cell count does not match table columns")

// Table is a grid of paragraphs with a declared column count.
type Table struct {
	Header
	Columns int
	Heading []*Paragraph
	Rows    [][]*Paragraph
}

func (t *Table) Head() *Header { return &t.Header }
func (t *Table) Kind() Kind    { return KindTable }

// SetHeader sets the header row.
func (t *Table) SetHeader(cells ...*Paragraph) error {
	if len(cells) != t.Columns {
		return fmt.Errorf("%w: header has %d, want %d", ErrColumnCount, len(cells), t.Columns)
	}
	t.Heading = cells
	return nil
}

// AddRow appends a data row.
func (t *Table) AddRow(cells ...*Paragraph) error {
	if len(cells) != t.Columns {
		return fmt.Errorf("%w: row has %d, want %d", ErrColumnCount, len(cells), t.Columns)
	}
	t.Rows = append(t.Rows, cells)
	return nil
}

// Figure is a titled diagram.
type Figure struct {
	Header
	Diagram *diagram.Diagram
}

func (f *Figure) Head() *Header { return &f.Header }
func (f *Figure) Kind() Kind    { return KindFigure }
