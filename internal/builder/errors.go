package builder

import (
	"fmt"
	"strings"
)

// ParseError reports input the builder cannot interpret: an unknown or
// mismatched tag, or an attribute whose text is missing or malformed.
type ParseError struct {
	Tag    string
	Attr   string // empty when the problem is the tag itself
	Value  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<%s", e.Tag)
	if e.Attr != "" {
		fmt.Fprintf(&b, " %s=%q", e.Attr, e.Value)
	}
	b.WriteString(">: ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }
