package schema

// Status is the review state an author attached to a node.
type Status int

const (
	StatusUnset Status = iota
	StatusDone
	StatusNeedsReview
	StatusIncomplete
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusNeedsReview:
		return "needs-review"
	case StatusIncomplete:
		return "incomplete"
	default:
		return "unset"
	}
}

// Meta holds the descriptive attributes shared by every schema node.
type Meta struct {
	Name        string
	ShortName   string
	Brief       string
	Description string // Markdown
	Version     string // firmware version that introduced the node
	Status      Status
}

// Label returns the short name for narrow spans, falling back to the name.
func (m *Meta) Label(narrow bool) string {
	if narrow && m.ShortName != "" {
		return m.ShortName
	}
	return m.Name
}

// Described is anything carrying Meta: every Pattern, EnumItem and Codeplug.
type Described interface {
	Meta() *Meta
}
