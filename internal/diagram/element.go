package diagram

import "github.com/dgallion1/cpdgen/internal/schema"

// Spans lists the direct children of el. A fixed repeat becomes one span
// stepping over its repetitions; nested elements are a single span.
func Spans(el *schema.Element) []Span {
	spans := make([]Span, 0, len(el.Children()))
	for _, c := range el.Children() {
		at, _ := c.Address()
		s := Span{
			Name:      c.Meta().Name,
			ShortName: c.Meta().ShortName,
			Start:     at.Bits(),
			Width:     c.Size().Bits(),
		}
		if r, ok := c.(*schema.FixedRepeat); ok && r.Child() != nil {
			s.Step = r.Child().Size().Bits()
			if s.Name == "" {
				s.Name = r.Child().Meta().Name
				s.ShortName = r.Child().Meta().ShortName
			}
		}
		spans = append(spans, s)
	}
	return spans
}

// FromElement lays out the fields of el.
func FromElement(el *schema.Element) *Diagram {
	return Layout(Spans(el))
}
