// Package schema is the in-memory model of a codeplug memory layout.
//
// Patterns form a closed set: the leaf fields (IntegerField, StringField,
// EnumField, UnusedField, UnknownField), the fixed-size container Element and
// the three repeats. FixedPattern is the subset whose size is known up front;
// only those may be placed inside an Element, a FixedRepeat or a BlockRepeat.
// Containers check their invariants in Add, so a tree that was assembled
// without error is structurally valid.
package schema

import (
	"fmt"

	"github.com/dgallion1/cpdgen/internal/offset"
)

// Pattern is a node of the schema tree.
type Pattern interface {
	Described
	// Address returns the node's address and whether it has one. Inside an
	// Element this is the offset from the element start.
	Address() (offset.Address, bool)
	SetAddress(offset.Address)
	Kind() Kind
	isPattern()
}

// FixedPattern is a Pattern with a size known at construction time.
type FixedPattern interface {
	Pattern
	Size() offset.Size
}

// Kind names a pattern variant.
type Kind string

const (
	KindInteger      Kind = "integer"
	KindString       Kind = "string"
	KindEnum         Kind = "enum"
	KindUnused       Kind = "unused"
	KindUnknown      Kind = "unknown"
	KindElement      Kind = "element"
	KindFixedRepeat  Kind = "fixed repeat"
	KindBlockRepeat  Kind = "block repeat"
	KindSparseRepeat Kind = "sparse repeat"
)

// node carries the state common to all patterns.
type node struct {
	meta   Meta
	at     offset.Address
	placed bool
}

func (n *node) Meta() *Meta { return &n.meta }

func (n *node) Address() (offset.Address, bool) { return n.at, n.placed }

func (n *node) SetAddress(a offset.Address) {
	n.at = a
	n.placed = true
}

func (n *node) isPattern() {}

// IsFixed reports whether p has a size known up front.
func IsFixed(p Pattern) bool {
	_, ok := p.(FixedPattern)
	return ok
}

// Describe renders a node for error messages, e.g. `element "Bank"`.
func Describe(d Described) string {
	var kind string
	switch v := d.(type) {
	case Pattern:
		kind = string(v.Kind())
	case *EnumItem:
		kind = "enum item"
	case *Codeplug:
		kind = "codeplug"
	default:
		kind = fmt.Sprintf("%T", d)
	}
	if name := d.Meta().Name; name != "" {
		return fmt.Sprintf("%s %q", kind, name)
	}
	return kind
}
