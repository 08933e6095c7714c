package schema

import "github.com/dgallion1/cpdgen/internal/offset"

// FixedRepeat is exactly N back-to-back copies of a fixed-size child.
type FixedRepeat struct {
	node
	N     int
	child FixedPattern
}

func (r *FixedRepeat) Kind() Kind { return KindFixedRepeat }

func (r *FixedRepeat) Size() offset.Size {
	if r.child == nil {
		return offset.Size{}
	}
	return r.child.Size().Mul(r.N)
}

// Child returns the repeated pattern, nil until added.
func (r *FixedRepeat) Child() FixedPattern { return r.child }

// Add sets the repeated pattern.
func (r *FixedRepeat) Add(p Pattern) error {
	if r.child != nil {
		return structural(r, p, "a repeat has exactly one child")
	}
	fp, ok := p.(FixedPattern)
	if !ok {
		return structural(r, p, "only fixed-size patterns can be repeated a fixed number of times")
	}
	r.child = fp
	return nil
}

// BlockRepeat is a variable number of back-to-back copies of a fixed-size
// child. A Max of zero means no upper bound is known.
type BlockRepeat struct {
	node
	Min   int
	Max   int
	child FixedPattern
}

func (r *BlockRepeat) Kind() Kind { return KindBlockRepeat }

// Child returns the repeated pattern, nil until added.
func (r *BlockRepeat) Child() FixedPattern { return r.child }

// Add sets the repeated pattern.
func (r *BlockRepeat) Add(p Pattern) error {
	if r.child != nil {
		return structural(r, p, "a repeat has exactly one child")
	}
	fp, ok := p.(FixedPattern)
	if !ok {
		return structural(r, p, "only fixed-size patterns can be repeated as a block")
	}
	r.child = fp
	return nil
}

// SparseRepeat is a variable number of copies of any child, Step apart.
// A Max of zero means no upper bound is known.
type SparseRepeat struct {
	node
	Step  offset.Size
	Min   int
	Max   int
	child Pattern
}

func (r *SparseRepeat) Kind() Kind { return KindSparseRepeat }

// Child returns the repeated pattern, nil until added.
func (r *SparseRepeat) Child() Pattern { return r.child }

// Add sets the repeated pattern.
func (r *SparseRepeat) Add(p Pattern) error {
	if r.child != nil {
		return structural(r, p, "a repeat has exactly one child")
	}
	r.child = p
	return nil
}

// Bounded is implemented by the repeats without a fixed count.
type Bounded interface {
	Pattern
	Bounds() (lo, hi int)
}

func (r *BlockRepeat) Bounds() (int, int)  { return r.Min, r.Max }
func (r *SparseRepeat) Bounds() (int, int) { return r.Min, r.Max }

// ChildOf returns the repeated pattern of any repeat, or nil for other kinds.
func ChildOf(p Pattern) Pattern {
	switch r := p.(type) {
	case *FixedRepeat:
		return r.child
	case *BlockRepeat:
		return r.child
	case *SparseRepeat:
		return r.child
	}
	return nil
}
