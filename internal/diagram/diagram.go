// Package diagram lays out the fields of an element as rows of 32 bits.
//
// Each field is split into fragments at row boundaries (and, for fixed
// repeats, at repetition boundaries). Only the first and last fragment of
// a field are drawn; rows left without any drawn fragment are removed, so
// long strings and arrays collapse to their first and last row. The result
// is a list of drawing primitives with pixel coordinates, independent of
// any output format.
package diagram

import (
	"fmt"
	"sort"

	"github.com/dgallion1/cpdgen/internal/offset"
)

// Geometry in pixels.
const (
	RowBits      = 32
	Margin       = 10
	RowHeader    = 60
	ColumnHeader = 20
	CellWidth    = 30
	CellHeight   = 30
	Radius       = 5
)

// Corners selects which corners of a Rect are rounded.
type Corners uint8

const (
	TopLeft Corners = 1 << iota
	TopRight
	BottomRight
	BottomLeft

	LeftCorners  = TopLeft | BottomLeft
	RightCorners = TopRight | BottomRight
	AllCorners   = LeftCorners | RightCorners
)

// Align is the horizontal anchor of a Text.
type Align int

const (
	AlignStart Align = iota
	AlignMiddle
	AlignEnd
)

// Primitive is a Rect or a Text.
type Primitive interface {
	isPrimitive()
}

// Rect is a filled rectangle with optionally rounded corners.
type Rect struct {
	X, Y, W, H int
	Radius     int
	Corners    Corners
}

// Text is a label anchored horizontally at X and centred vertically on Y.
type Text struct {
	Content string
	X, Y    int
	Align   Align
}

func (Rect) isPrimitive() {}
func (Text) isPrimitive() {}

// Span is one field of the laid-out element, in bits from the element start.
// A non-zero Step splits the span into repetitions.
type Span struct {
	Name      string
	ShortName string
	Start     uint64
	Width     uint64
	Step      uint64
}

// fieldBits is the width of one field: a repetition for stepped spans.
func (s Span) fieldBits() uint64 {
	if s.Step > 0 {
		return s.Step
	}
	return s.Width
}

// Block is one drawn fragment.
type Block struct {
	Span    int // index into the input spans
	Row     int // raw row of the fragment
	Start   uint64
	Width   uint64
	First   bool
	Last    bool
	Rect    Rect
	Label   Text
	Caption Text // empty except on a field's first fragment
}

// Diagram is a laid-out element.
type Diagram struct {
	Width        int
	Height       int
	Blocks       []Block
	RowLabels    []Text
	ColumnLabels []Text
}

// Rows returns the number of drawn rows.
func (d *Diagram) Rows() int { return len(d.RowLabels) }

// Primitives flattens the diagram in drawing order: headers first, then
// each block's rectangle followed by its labels.
func (d *Diagram) Primitives() []Primitive {
	out := make([]Primitive, 0, len(d.ColumnLabels)+len(d.RowLabels)+3*len(d.Blocks))
	for _, t := range d.ColumnLabels {
		out = append(out, t)
	}
	for _, t := range d.RowLabels {
		out = append(out, t)
	}
	for _, b := range d.Blocks {
		out = append(out, b.Rect, b.Label)
		if b.Caption.Content != "" {
			out = append(out, b.Caption)
		}
	}
	return out
}

type fragment struct {
	span         int
	start, width uint64
	first, last  bool
}

// split returns the fragments of s that are drawn: the first and the last.
// Fragments are cut at row and repetition boundaries; the interior ones
// are never materialized, so the cost does not grow with the span.
func split(index int, s Span) []fragment {
	if s.Width == 0 {
		return nil
	}
	end := s.Start + s.Width

	firstEnd := min(end, (s.Start/RowBits+1)*RowBits)
	if s.Step > 0 {
		firstEnd = min(firstEnd, s.Start+s.Step)
	}
	first := fragment{span: index, start: s.Start, width: firstEnd - s.Start, first: true}
	if firstEnd == end {
		first.last = true
		return []fragment{first}
	}

	lastStart := max(s.Start, (end-1)/RowBits*RowBits)
	if s.Step > 0 {
		lastStart = max(lastStart, s.Start+(end-1-s.Start)/s.Step*s.Step)
	}
	last := fragment{span: index, start: lastStart, width: end - lastStart, last: true}
	return []fragment{first, last}
}

// Layout computes the diagram for spans given in layout order.
func Layout(spans []Span) *Diagram {
	var drawn []fragment
	for i, s := range spans {
		drawn = append(drawn, split(i, s)...)
	}

	rowSet := map[int]bool{}
	for _, f := range drawn {
		rowSet[int(f.start/RowBits)] = true
	}
	rows := make([]int, 0, len(rowSet))
	for r := range rowSet {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	display := make(map[int]int, len(rows))
	for i, r := range rows {
		display[r] = i
	}

	d := &Diagram{
		Width:  2*Margin + RowHeader + RowBits*CellWidth,
		Height: 2*Margin + ColumnHeader + len(rows)*CellHeight,
	}
	left := Margin + RowHeader
	top := Margin + ColumnHeader

	for col := 0; col < RowBits; col++ {
		d.ColumnLabels = append(d.ColumnLabels, Text{
			Content: fmt.Sprint(7 - col%8),
			X:       left + col*CellWidth + CellWidth/2,
			Y:       Margin + ColumnHeader/2,
			Align:   AlignMiddle,
		})
	}
	for i, r := range rows {
		d.RowLabels = append(d.RowLabels, Text{
			Content: fmt.Sprintf("%04Xh", r*RowBits/8),
			X:       left - Radius,
			Y:       top + i*CellHeight + CellHeight/2,
			Align:   AlignEnd,
		})
	}

	for _, f := range drawn {
		s := spans[f.span]
		row := int(f.start / RowBits)
		rect := Rect{
			X:      left + int(f.start%RowBits)*CellWidth,
			Y:      top + display[row]*CellHeight,
			W:      int(f.width) * CellWidth,
			H:      CellHeight,
			Radius: Radius,
		}
		if f.first {
			rect.Corners |= LeftCorners
		}
		if f.last {
			rect.Corners |= RightCorners
		}
		b := Block{Span: f.span, Row: row, Start: f.start, Width: f.width, First: f.first, Last: f.last, Rect: rect}
		mid := rect.Y + rect.H/2
		if f.first {
			name := s.Name
			if s.fieldBits() <= 4 && s.ShortName != "" {
				name = s.ShortName
			}
			b.Label = Text{Content: name, X: rect.X + Radius, Y: mid, Align: AlignStart}
			b.Caption = Text{
				Content: offset.Bits(int64(s.Width)).String(),
				X:       rect.X + rect.W - Radius,
				Y:       rect.Y + rect.H - Radius,
				Align:   AlignEnd,
			}
		} else {
			b.Label = Text{Content: "...", X: rect.X + rect.W/2, Y: mid, Align: AlignMiddle}
		}
		d.Blocks = append(d.Blocks, b)
	}
	return d
}
