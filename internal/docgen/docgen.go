// Package docgen turns a schema tree into a document tree.
//
// Every field becomes a paragraph describing its layout, every element and
// repeat a section, and the codeplug a top-level section with an address
// table cross-referencing its items. The schema tree is only read.
package docgen

import (
	"fmt"

	"github.com/dgallion1/cpdgen/internal/diagram"
	"github.com/dgallion1/cpdgen/internal/doctree"
	"github.com/dgallion1/cpdgen/internal/schema"
)

// UnhandledKindError is returned when a pattern of an unknown kind reaches
// the generator. It indicates a missing case, not bad input.
type UnhandledKindError struct {
	Kind string
}

func (e *UnhandledKindError) Error() string {
	return fmt.Sprintf("docgen: unhandled pattern kind %s", e.Kind)
}

// Generate documents a single codeplug.
func Generate(cp *schema.Codeplug) (*doctree.Document, error) {
	doc := &doctree.Document{}
	g := &generator{doc: doc}
	sec, err := g.codeplug(cp)
	if err != nil {
		return nil, err
	}
	doc.Title = sec.Title
	doc.Add(sec)
	return doc, nil
}

type generator struct {
	doc *doctree.Document
}

func (g *generator) key() doctree.Key { return g.doc.NewKey() }

func (g *generator) section(m *schema.Meta) *doctree.Section {
	return &doctree.Section{Header: doctree.Header{Title: m.Name, Subtitle: m.ShortName, Key: g.key()}}
}

// pattern dispatches on the pattern kind. The first returned segment is the
// one references to p point at.
func (g *generator) pattern(p schema.Pattern) ([]doctree.Segment, error) {
	switch v := p.(type) {
	case *schema.Element:
		s, err := g.element(v)
		return []doctree.Segment{s}, err
	case *schema.FixedRepeat, *schema.BlockRepeat, *schema.SparseRepeat:
		s, err := g.repeat(v)
		return []doctree.Segment{s}, err
	case *schema.IntegerField:
		return g.field(v, integerSentence(v)), nil
	case *schema.StringField:
		return g.field(v, stringSentence(v)), nil
	case *schema.EnumField:
		return g.enum(v)
	case *schema.UnusedField:
		return g.field(v, unusedSentence(v)), nil
	case *schema.UnknownField:
		return g.field(v, unknownSentence(v)), nil
	}
	return nil, &UnhandledKindError{Kind: fmt.Sprintf("%T", p)}
}

func (g *generator) codeplug(cp *schema.Codeplug) (*doctree.Section, error) {
	m := cp.Meta()
	sec := &doctree.Section{Header: doctree.Header{Title: "Codeplug " + m.Name, Subtitle: m.ShortName, Key: g.key()}}
	if s := statusSpans(m); len(s) > 0 {
		sec.Add(&doctree.Paragraph{Header: doctree.Header{Key: g.key()}, Spans: s})
	}
	g.describe(sec, m)

	table := &doctree.Table{Header: doctree.Header{Title: "Memory map", Key: g.key()}, Columns: 3}
	if err := table.SetHeader(textCell("Address"), textCell("Element"), textCell("Description")); err != nil {
		return nil, err
	}
	sec.Add(table)

	for _, item := range cp.Items() {
		segs, err := g.pattern(item)
		if err != nil {
			return nil, err
		}
		at, _ := item.Address()
		ref := doctree.Reference{Target: segs[0].Head().Key}
		if err := table.AddRow(textCell(at.String()), doctree.Cell(ref), textCell(item.Meta().Brief)); err != nil {
			return nil, err
		}
		sec.Add(segs...)
	}
	return sec, nil
}

func (g *generator) element(el *schema.Element) (*doctree.Section, error) {
	m := el.Meta()
	sec := g.section(m)

	summary := &doctree.Paragraph{Header: doctree.Header{Key: g.key()}}
	line := "Element of size " + el.Size().String()
	if at, ok := el.Address(); ok {
		line += " at " + at.String()
	}
	summary.Add(doctree.Text(line + "."))
	summary.Add(statusSpans(m)...)
	sec.Add(summary)
	g.describe(sec, m)

	sec.Add(&doctree.Figure{
		Header:  doctree.Header{Title: "Element Structure", Key: g.key()},
		Diagram: diagram.FromElement(el),
	})

	for _, c := range el.Children() {
		segs, err := g.pattern(c)
		if err != nil {
			return nil, err
		}
		sec.Add(segs...)
	}
	return sec, nil
}

func (g *generator) repeat(r schema.Pattern) (*doctree.Section, error) {
	m := r.Meta()
	sec := g.section(m)

	child := schema.ChildOf(r)
	if child == nil {
		return nil, &UnhandledKindError{Kind: fmt.Sprintf("%T without child", r)}
	}
	childSegs, err := g.pattern(child)
	if err != nil {
		return nil, err
	}

	para := &doctree.Paragraph{Header: doctree.Header{Key: g.key()}}
	para.Add(addressPrefix(r)...)
	para.Add(doctree.Text(cardinality(r)+" repetitions of "), doctree.Reference{Target: childSegs[0].Head().Key}, doctree.Text("."))
	if sparse, ok := r.(*schema.SparseRepeat); ok {
		para.Add(doctree.Text(" Repetitions are " + sparse.Step.String() + " apart."))
	}
	para.Add(statusSpans(m)...)
	sec.Add(para)
	g.describe(sec, m)
	sec.Add(childSegs...)
	return sec, nil
}

// cardinality describes how often a repeat repeats, capitalised.
func cardinality(r schema.Pattern) string {
	if f, ok := r.(*schema.FixedRepeat); ok {
		return fmt.Sprintf("Exactly %d", f.N)
	}
	lo, hi := r.(schema.Bounded).Bounds()
	switch {
	case lo == 0 && hi == 0:
		return "Some"
	case lo == 0:
		return fmt.Sprintf("Up to %d", hi)
	case hi == 0:
		return fmt.Sprintf("At least %d", lo)
	case lo == hi:
		return fmt.Sprintf("Exactly %d", lo)
	default:
		return fmt.Sprintf("Between %d and %d", lo, hi)
	}
}

// field builds the summary paragraph of a leaf followed by its brief and
// description.
func (g *generator) field(p schema.Pattern, sentence string) []doctree.Segment {
	m := p.Meta()
	para := &doctree.Paragraph{Header: doctree.Header{Title: m.Name, Subtitle: m.ShortName, Key: g.key()}}
	para.Add(addressPrefix(p)...)
	para.Add(doctree.Text(sentence + "."))
	para.Add(statusSpans(m)...)

	segs := []doctree.Segment{para}
	return append(segs, g.notes(m)...)
}

func (g *generator) enum(e *schema.EnumField) ([]doctree.Segment, error) {
	segs := g.field(e, enumSentence(e))
	if len(e.Items()) == 0 {
		return segs, nil
	}

	table := &doctree.Table{Header: doctree.Header{Title: "Possible values", Key: g.key()}, Columns: 3}
	if err := table.SetHeader(textCell("Value"), textCell("Name"), textCell("Description")); err != nil {
		return nil, err
	}
	for _, item := range e.Items() {
		im := item.Meta()
		name := im.Name
		if e.IsDefault(item) {
			name += " (default)"
		}
		desc := im.Brief
		if desc == "" {
			desc = flatten(im.Description)
		}
		if err := table.AddRow(textCell(fmt.Sprint(item.Value)), textCell(name), textCell(desc)); err != nil {
			return nil, err
		}
	}
	// The table follows the summary paragraph, before the notes.
	out := []doctree.Segment{segs[0], table}
	return append(out, segs[1:]...), nil
}

// describe adds the brief and description paragraphs of m to sec.
func (g *generator) describe(sec *doctree.Section, m *schema.Meta) {
	sec.Add(g.notes(m)...)
}

func (g *generator) notes(m *schema.Meta) []doctree.Segment {
	var out []doctree.Segment
	if m.Brief != "" {
		p := paragraph(m.Brief)
		p.Key = g.key()
		out = append(out, p)
	}
	for _, p := range descriptionParagraphs(m.Description) {
		p.Key = g.key()
		out = append(out, p)
	}
	return out
}

func addressPrefix(p schema.Pattern) []doctree.Span {
	if at, ok := p.Address(); ok {
		return []doctree.Span{doctree.Text("At " + at.String() + ": ")}
	}
	return nil
}

// statusSpans returns the version and review badge of m.
func statusSpans(m *schema.Meta) []doctree.Span {
	var out []doctree.Span
	if m.Version != "" {
		out = append(out, doctree.Version(m.Version))
	}
	switch m.Status {
	case schema.StatusDone:
		out = append(out, doctree.Okay)
	case schema.StatusNeedsReview:
		out = append(out, doctree.Warning)
	case schema.StatusIncomplete:
		out = append(out, doctree.Critical)
	}
	return out
}

func textCell(s string) *doctree.Paragraph {
	return doctree.Cell(doctree.Text(s))
}

// flatten joins the paragraphs of a Markdown text into one line.
func flatten(md string) string {
	var out string
	for _, p := range descriptionParagraphs(md) {
		t := (&doctree.Document{}).PlainText(p.Spans)
		if p.Title != "" {
			t = p.Title
		}
		if out != "" {
			out += " "
		}
		out += t
	}
	return out
}
