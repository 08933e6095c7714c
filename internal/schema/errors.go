package schema

import "fmt"

// StructuralError reports a violated composition rule, raised by the
// container that refused the child.
type StructuralError struct {
	Parent string
	Child  string
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Child == "" {
		return fmt.Sprintf("%s: %s", e.Parent, e.Reason)
	}
	return fmt.Sprintf("cannot add %s to %s: %s", e.Child, e.Parent, e.Reason)
}

func structural(parent, child Described, reason string, args ...any) *StructuralError {
	e := &StructuralError{Parent: Describe(parent), Reason: fmt.Sprintf(reason, args...)}
	if child != nil {
		e.Child = Describe(child)
	}
	return e
}
