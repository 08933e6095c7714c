package doctree

import "strings"

// Span is an inline part of a paragraph.
type Span interface {
	isSpan()
}

// Text is plain text.
type Text string

// Reference points at another segment. It renders as Text when set,
// otherwise as the target's title.
type Reference struct {
	Target Key
	Text   string
}

// Symbol is a status badge.
type Symbol int

const (
	Okay Symbol = iota
	Warning
	Critical
)

func (s Symbol) String() string {
	switch s {
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	default:
		return "okay"
	}
}

// Version marks the firmware version a documented item appeared in.
type Version string

func (Text) isSpan()      {}
func (Reference) isSpan() {}
func (Symbol) isSpan()    {}
func (Version) isSpan()   {}

// Document is the root of a document tree.
type Document struct {
	Title    string
	Subtitle string
	Segments []Segment

	lastKey Key
	index   map[Key]Segment
}

// NewKey returns a key not yet handed out by this document.
func (d *Document) NewKey() Key {
	d.lastKey++
	return d.lastKey
}

// Add appends top-level segments.
func (d *Document) Add(segments ...Segment) {
	for _, s := range segments {
		s.Head().Parent = nil
		d.Segments = append(d.Segments, s)
	}
}

// ResetIndex forgets all registered keys.
func (d *Document) ResetIndex() {
	d.index = make(map[Key]Segment)
}

// Register makes s resolvable by its key.
func (d *Document) Register(s Segment) {
	if k := s.Head().Key; k != 0 {
		if d.index == nil {
			d.index = make(map[Key]Segment)
		}
		d.index[k] = s
	}
}

// Indexed reports whether the document went through the indexer.
func (d *Document) Indexed() bool {
	return d.index != nil
}

// Resolve returns the segment with key k. It only succeeds after indexing.
func (d *Document) Resolve(k Key) (Segment, bool) {
	s, ok := d.index[k]
	return s, ok
}

// RefText returns the text a reference renders as.
func (d *Document) RefText(r Reference) string {
	if r.Text != "" {
		return r.Text
	}
	if s, ok := d.Resolve(r.Target); ok {
		return Title(s)
	}
	return "??"
}

// PlainText flattens spans to text, resolving references.
func (d *Document) PlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch v := s.(type) {
		case Text:
			b.WriteString(string(v))
		case Reference:
			b.WriteString(d.RefText(v))
		case Version:
			b.WriteString("Version " + string(v))
		case Symbol:
			b.WriteString("[" + v.String() + "]")
		}
	}
	return b.String()
}

// WalkFunc is called for each segment in reading order.
type WalkFunc func(s Segment) error

// Walk visits every segment of the document in pre-order.
func (d *Document) Walk(fn WalkFunc) error {
	for _, s := range d.Segments {
		if err := walk(s, fn); err != nil {
			return err
		}
	}
	return nil
}

func walk(s Segment, fn WalkFunc) error {
	if err := fn(s); err != nil {
		return err
	}
	if sec, ok := s.(*Section); ok {
		for _, c := range sec.Children {
			if err := walk(c, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
