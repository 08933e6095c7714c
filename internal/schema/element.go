package schema

import "github.com/dgallion1/cpdgen/internal/offset"

// Element is a fixed-size container. Child addresses are offsets from the
// element start, derived from the sizes of the preceding siblings.
type Element struct {
	node
	children []FixedPattern
	size     offset.Size
}

func (e *Element) Kind() Kind        { return KindElement }
func (e *Element) Size() offset.Size { return e.size }

// Children returns the children in layout order.
func (e *Element) Children() []FixedPattern { return e.children }

// Add appends p at the current end of the element. An address already set
// on p must equal that position.
func (e *Element) Add(p Pattern) error {
	fp, ok := p.(FixedPattern)
	if !ok {
		return structural(e, p, "only fixed-size patterns fit in an element")
	}
	next := offset.Origin().Add(e.size)
	if at, ok := fp.Address(); ok && at != next {
		return structural(e, p, "address mismatch: declared %s, derived %s", at, next)
	}
	size := e.size.Add(fp.Size())
	if size.IsSaturated() {
		return structural(e, p, "element size overflows the address space")
	}
	fp.SetAddress(next)
	e.children = append(e.children, fp)
	e.size = size
	return nil
}
