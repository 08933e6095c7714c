// Package builder assembles a schema tree from a stream of open, text and
// close events.
//
// The caller drives the builder, typically from a markup parser, and the
// builder keeps an explicit stack of the nodes that are still open. When a
// node closes it is checked with schema.Complete and handed to its parent's
// Add, so structural errors surface at the event that caused them. The
// first error poisons the builder: no partial tree is ever returned.
package builder

import (
	"strings"

	"github.com/dgallion1/cpdgen/internal/schema"
)

type frameKind int

const (
	codeplugFrame frameKind = iota
	patternFrame
	itemFrame
	metaFrame
	textFrame
)

// frame is one open node. kind selects which of the node fields is set.
type frame struct {
	kind     frameKind
	tag      string
	codeplug *schema.Codeplug
	pattern  schema.Pattern
	item     *schema.EnumItem
	meta     *schema.Meta
	text     strings.Builder
}

func (f *frame) described() schema.Described {
	switch f.kind {
	case codeplugFrame:
		return f.codeplug
	case patternFrame:
		return f.pattern
	case itemFrame:
		return f.item
	}
	return nil
}

// container is implemented by the patterns that take pattern children.
type container interface {
	schema.Pattern
	Add(schema.Pattern) error
}

// Builder consumes events and produces a Codeplug.
type Builder struct {
	stack []*frame
	root  *schema.Codeplug
	err   error
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

func (b *Builder) fail(err error) error {
	b.err = err
	b.stack = nil
	b.root = nil
	return err
}

func (b *Builder) top() *frame {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

func (b *Builder) push(f *frame) {
	b.stack = append(b.stack, f)
}

// Open handles a start tag with its attributes.
func (b *Builder) Open(tag string, attributes map[string]string) error {
	if b.err != nil {
		return b.err
	}
	top := b.top()
	if top == nil {
		if b.root != nil {
			return b.fail(&schema.StructuralError{Parent: "document", Child: "<" + tag + ">", Reason: "content after the codeplug root"})
		}
		if tag != "codeplug" {
			return b.fail(&schema.StructuralError{Parent: "document", Child: "<" + tag + ">", Reason: "content outside the codeplug root"})
		}
	}

	switch tag {
	case "codeplug":
		if top != nil {
			return b.fail(misplaced(top, tag, "codeplug must be the root"))
		}
		b.push(&frame{kind: codeplugFrame, tag: tag, codeplug: &schema.Codeplug{}})

	case "meta":
		target := top.described()
		if target == nil {
			return b.fail(misplaced(top, tag, "meta belongs to a codeplug, pattern or enum item"))
		}
		b.push(&frame{kind: metaFrame, tag: tag, meta: target.Meta()})

	case "name", "short-name", "brief", "description", "firmware", "done", "needs-review", "incomplete":
		if top.kind != metaFrame {
			return b.fail(misplaced(top, tag, tag+" belongs inside meta"))
		}
		b.push(&frame{kind: textFrame, tag: tag, meta: top.meta})

	case "item":
		if _, ok := top.pattern.(*schema.EnumField); top.kind != patternFrame || !ok {
			return b.fail(misplaced(top, tag, "enum item outside an enum"))
		}
		a := &attrs{tag: tag, values: attributes}
		value, _ := a.integer("value", true)
		if a.err != nil {
			return b.fail(a.err)
		}
		b.push(&frame{kind: itemFrame, tag: tag, item: &schema.EnumItem{Value: value}})

	case "element", "repeat", "int", "string", "enum", "unused", "unknown":
		switch top.kind {
		case codeplugFrame:
		case patternFrame:
			if _, ok := top.pattern.(container); !ok {
				return b.fail(misplaced(top, tag, "fields cannot contain patterns"))
			}
		default:
			return b.fail(misplaced(top, tag, "patterns belong in the codeplug or a container"))
		}
		p, err := newPattern(tag, attributes)
		if err != nil {
			return b.fail(err)
		}
		b.push(&frame{kind: patternFrame, tag: tag, pattern: p})

	default:
		return b.fail(&ParseError{Tag: tag, Reason: "unknown tag"})
	}
	return nil
}

// Text handles character data. XML parsers may deliver one run of text in
// several events; they are concatenated.
func (b *Builder) Text(s string) error {
	if b.err != nil {
		return b.err
	}
	top := b.top()
	if top == nil {
		if strings.TrimSpace(s) != "" {
			return b.fail(&schema.StructuralError{Parent: "document", Reason: "text outside the codeplug root"})
		}
		return nil
	}
	top.text.WriteString(s)
	return nil
}

// Close handles an end tag. It must match the most recent open tag.
func (b *Builder) Close(tag string) error {
	if b.err != nil {
		return b.err
	}
	top := b.top()
	if top == nil {
		return b.fail(&ParseError{Tag: tag, Reason: "close without matching open"})
	}
	if top.tag != tag {
		return b.fail(&ParseError{Tag: tag, Reason: "mismatched close, expected </" + top.tag + ">"})
	}
	b.stack = b.stack[:len(b.stack)-1]
	parent := b.top()

	var err error
	switch top.kind {
	case textFrame:
		applyMeta(top.meta, top.tag, top.text.String())
	case metaFrame:
	case itemFrame:
		err = parent.pattern.(*schema.EnumField).Add(top.item)
	case patternFrame:
		err = b.closePattern(top, parent)
	case codeplugFrame:
		b.root = top.codeplug
	}
	if err != nil {
		return b.fail(err)
	}
	return nil
}

func (b *Builder) closePattern(f, parent *frame) error {
	if unused, ok := f.pattern.(*schema.UnusedField); ok {
		content, err := parseHex(f.text.String())
		if err != nil {
			return &ParseError{Tag: f.tag, Reason: "unused content is not hex", Err: err}
		}
		unused.Content = content
	}
	if err := schema.Complete(f.pattern); err != nil {
		return err
	}
	if parent.kind == codeplugFrame {
		return parent.codeplug.Add(f.pattern)
	}
	return parent.pattern.(container).Add(f.pattern)
}

// Finish returns the built codeplug once every tag has been closed.
func (b *Builder) Finish() (*schema.Codeplug, error) {
	if b.err != nil {
		return nil, b.err
	}
	if top := b.top(); top != nil {
		return nil, b.fail(&ParseError{Tag: top.tag, Reason: "unclosed at end of input"})
	}
	if b.root == nil {
		return nil, b.fail(&ParseError{Tag: "codeplug", Reason: "no codeplug in input"})
	}
	return b.root, nil
}

func applyMeta(m *schema.Meta, tag, text string) {
	switch tag {
	case "name":
		m.Name = strings.TrimSpace(text)
	case "short-name":
		m.ShortName = strings.TrimSpace(text)
	case "brief":
		m.Brief = strings.Join(strings.Fields(text), " ")
	case "description":
		m.Description = dedent(text)
	case "firmware":
		m.Version = strings.TrimSpace(text)
	case "done":
		m.Status = schema.StatusDone
	case "needs-review":
		m.Status = schema.StatusNeedsReview
	case "incomplete":
		m.Status = schema.StatusIncomplete
	}
}

func misplaced(parent *frame, tag, reason string) error {
	e := &schema.StructuralError{Parent: "<" + parent.tag + ">", Child: "<" + tag + ">", Reason: reason}
	if d := parent.described(); d != nil {
		e.Parent = schema.Describe(d)
	}
	return e
}
