// Package indexer numbers the segments of a document and assigns their
// stable identifiers.
package indexer

import (
	"strconv"

	"github.com/dgallion1/cpdgen/internal/doctree"
)

// counters holds the next number per segment kind among one set of siblings.
type counters map[doctree.Kind]int

// Index walks doc in reading order. Each segment is numbered among the
// siblings of its own kind; its identifier is the kind prefix followed by
// the dotted numbers of the enclosing sections and its own number, e.g.
// the third table in section 2 is "tab2.3". Running Index again yields the
// same result.
func Index(doc *doctree.Document) {
	doc.ResetIndex()
	number(doc, doc.Segments, "")
}

func number(doc *doctree.Document, segments []doctree.Segment, path string) {
	next := counters{}
	for _, s := range segments {
		kind := s.Kind()
		next[kind]++
		h := s.Head()
		h.Number = next[kind]

		own := strconv.Itoa(h.Number)
		if path != "" {
			own = path + "." + own
		}
		h.ID = kind.IDPrefix() + own
		doc.Register(s)

		if sec, ok := s.(*doctree.Section); ok {
			number(doc, sec.Children, own)
		}
	}
}
