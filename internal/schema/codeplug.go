package schema

import (
	"sort"

	"github.com/dgallion1/cpdgen/internal/offset"
)

// Codeplug is the root of a schema: independently addressed top-level
// patterns kept sorted by address.
type Codeplug struct {
	meta  Meta
	items []Pattern
}

func (c *Codeplug) Meta() *Meta { return &c.meta }

// Items returns the top-level patterns in address order.
func (c *Codeplug) Items() []Pattern { return c.items }

// Add inserts p by address. Patterns at equal addresses keep insertion order.
func (c *Codeplug) Add(p Pattern) error {
	at, ok := p.Address()
	if !ok {
		return structural(c, p, "top-level patterns need an address")
	}
	i := sort.Search(len(c.items), func(i int) bool {
		other, _ := c.items[i].Address()
		return at.Less(other)
	})
	c.items = append(c.items, nil)
	copy(c.items[i+1:], c.items[i:])
	c.items[i] = p
	return nil
}

// Walk visits every pattern of the codeplug in pre-order.
func (c *Codeplug) Walk(fn WalkFunc) error {
	for _, p := range c.items {
		if err := Walk(p, fn); err != nil {
			return err
		}
	}
	return nil
}

// WalkFunc is called for each pattern with its nesting depth, starting at 0.
type WalkFunc func(p Pattern, depth int) error

// Walk visits p and its descendants in pre-order.
func Walk(p Pattern, fn WalkFunc) error {
	return walk(p, 0, fn)
}

func walk(p Pattern, depth int, fn WalkFunc) error {
	if err := fn(p, depth); err != nil {
		return err
	}
	switch v := p.(type) {
	case *Element:
		for _, c := range v.children {
			if err := walk(c, depth+1, fn); err != nil {
				return err
			}
		}
	case *FixedRepeat, *BlockRepeat, *SparseRepeat:
		if c := ChildOf(v); c != nil {
			return walk(c, depth+1, fn)
		}
	}
	return nil
}

// Complete checks the rules that can only be decided once a node has
// received all its children and attributes.
func Complete(p Pattern) error {
	switch v := p.(type) {
	case *FixedRepeat:
		if v.child == nil {
			return structural(v, nil, "repeat without a child")
		}
		if v.N < 1 {
			return structural(v, nil, "repetition count must be at least 1, got %d", v.N)
		}
		if v.Size().IsSaturated() {
			return structural(v, nil, "%d repetitions of %s overflow the address space", v.N, v.child.Size())
		}
	case *BlockRepeat:
		if v.child == nil {
			return structural(v, nil, "repeat without a child")
		}
		return checkBounds(v, v.Min, v.Max)
	case *SparseRepeat:
		if v.child == nil {
			return structural(v, nil, "repeat without a child")
		}
		if v.Step.IsZero() {
			return structural(v, nil, "sparse repeat needs a non-zero step")
		}
		return checkBounds(v, v.Min, v.Max)
	case *UnusedField:
		if content := offset.Bytes(int64(len(v.Content))); v.Width.Less(content) {
			return structural(v, nil, "content of %s exceeds width %s", content, v.Width)
		}
	case *IntegerField:
		if v.Width.IsZero() {
			return structural(v, nil, "integer without width")
		}
		if v.Min != nil && v.Max != nil && *v.Max < *v.Min {
			return structural(v, nil, "max %d below min %d", *v.Max, *v.Min)
		}
	case *StringField:
		if v.Chars < 1 {
			return structural(v, nil, "string needs at least one character")
		}
	}
	return nil
}

func checkBounds(p Pattern, lo, hi int) error {
	if lo < 0 {
		return structural(p, nil, "negative minimum %d", lo)
	}
	if hi != 0 && hi < lo {
		return structural(p, nil, "max %d below min %d", hi, lo)
	}
	return nil
}
