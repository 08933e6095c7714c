package diagram

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/cpdgen/internal/offset"
	"github.com/dgallion1/cpdgen/internal/schema"
)

func blocksOf(d *Diagram, span int) []Block {
	var out []Block
	for _, b := range d.Blocks {
		if b.Span == span {
			out = append(out, b)
		}
	}
	return out
}

func rowLabels(d *Diagram) []string {
	var out []string
	for _, t := range d.RowLabels {
		out = append(out, t.Content)
	}
	return out
}

func TestWholeField(t *testing.T) {
	d := Layout([]Span{{Name: "Power", Start: 0, Width: 8}})
	require.Len(t, d.Blocks, 1)
	b := d.Blocks[0]
	assert.True(t, b.First)
	assert.True(t, b.Last)
	assert.Equal(t, AllCorners, b.Rect.Corners)
	assert.Equal(t, Rect{X: Margin + RowHeader, Y: Margin + ColumnHeader, W: 8 * CellWidth, H: CellHeight, Radius: Radius, Corners: AllCorners}, b.Rect)
	assert.Equal(t, "Power", b.Label.Content)
	assert.Equal(t, AlignStart, b.Label.Align)
	assert.Equal(t, "1h", b.Caption.Content)

	assert.Equal(t, 2*Margin+RowHeader+32*CellWidth, d.Width)
	assert.Equal(t, 2*Margin+ColumnHeader+CellHeight, d.Height)
	assert.Equal(t, []string{"0000h"}, rowLabels(d))
}

func TestFixedRepeatCompresses(t *testing.T) {
	for _, n := range []uint64{3, 4, 7, 100} {
		d := Layout([]Span{{Name: "Digit", Start: 0, Width: 8 * n, Step: 8}})
		blocks := blocksOf(d, 0)
		require.Len(t, blocks, 2, "n=%d", n)

		first, last := blocks[0], blocks[1]
		assert.True(t, first.First)
		assert.False(t, first.Last)
		assert.Equal(t, LeftCorners, first.Rect.Corners)
		assert.Equal(t, uint64(0), first.Start)
		assert.Equal(t, "Digit", first.Label.Content)

		assert.True(t, last.Last)
		assert.False(t, last.First)
		assert.Equal(t, RightCorners, last.Rect.Corners)
		assert.Equal(t, 8*(n-1), last.Start)
		assert.Equal(t, uint64(8), last.Width)
		assert.Equal(t, "...", last.Label.Content)
		assert.Empty(t, last.Caption.Content)
	}
}

func TestFixedRepeatOfTwo(t *testing.T) {
	d := Layout([]Span{{Name: "Pair", Start: 0, Width: 16, Step: 8}})
	require.Len(t, d.Blocks, 2)
	assert.Equal(t, uint64(8), d.Blocks[1].Start)
}

func TestLongFieldKeepsFirstAndLastRow(t *testing.T) {
	// 64-byte string, rows 0..15.
	d := Layout([]Span{
		{Name: "Name", Start: 0, Width: 512},
		{Name: "Flags", Start: 512, Width: 8},
	})
	require.Len(t, d.Blocks, 3)
	assert.Equal(t, []string{"0000h", "003Ch", "0040h"}, rowLabels(d))
	assert.Equal(t, 2*Margin+ColumnHeader+3*CellHeight, d.Height)

	name := blocksOf(d, 0)
	require.Len(t, name, 2)
	assert.Equal(t, 0, name[0].Row)
	assert.Equal(t, 15, name[1].Row)
	assert.Equal(t, 32*CellWidth, name[0].Rect.W)
	assert.Equal(t, 32*CellWidth, name[1].Rect.W)
	// Row 15 is drawn directly below row 0.
	assert.Equal(t, name[0].Rect.Y+CellHeight, name[1].Rect.Y)

	flags := blocksOf(d, 1)
	require.Len(t, flags, 1)
	assert.Equal(t, name[1].Rect.Y+CellHeight, flags[0].Rect.Y)
}

func TestFieldOverThreeRowsUnaligned(t *testing.T) {
	// Starts at bit 8 and ends at bit 88: rows 0, 1 and 2, neither end aligned.
	d := Layout([]Span{
		{Name: "Head", Start: 0, Width: 8},
		{Name: "Body", Start: 8, Width: 80},
		{Name: "Tail", Start: 88, Width: 8},
	})
	body := blocksOf(d, 1)
	require.Len(t, body, 2)

	assert.Equal(t, uint64(8), body[0].Start)
	assert.Equal(t, uint64(24), body[0].Width)
	assert.Equal(t, Margin+RowHeader+8*CellWidth, body[0].Rect.X)
	assert.Equal(t, LeftCorners, body[0].Rect.Corners)

	assert.Equal(t, 2, body[1].Row)
	assert.Equal(t, uint64(64), body[1].Start)
	assert.Equal(t, uint64(24), body[1].Width)
	assert.Equal(t, Margin+RowHeader, body[1].Rect.X)
	assert.Equal(t, RightCorners, body[1].Rect.Corners)

	assert.Equal(t, []string{"0000h", "0008h"}, rowLabels(d))
	tail := blocksOf(d, 2)
	require.Len(t, tail, 1)
	assert.Equal(t, body[1].Rect.Y, tail[0].Rect.Y)
	assert.Equal(t, Margin+RowHeader+24*CellWidth, tail[0].Rect.X)
}

func TestFieldOverManyRowsUnaligned(t *testing.T) {
	// Bits 20..300: rows 0 through 9, both ends mid-row.
	d := Layout([]Span{{Name: "Blob", Start: 20, Width: 280}})
	require.Len(t, d.Blocks, 2)
	assert.Equal(t, uint64(12), d.Blocks[0].Width)
	assert.Equal(t, 9, d.Blocks[1].Row)
	assert.Equal(t, uint64(300-288), d.Blocks[1].Width)
	assert.Equal(t, []string{"0000h", "0024h"}, rowLabels(d))
}

func TestTwoRowField(t *testing.T) {
	d := Layout([]Span{{Name: "Freq", Start: 16, Width: 32}})
	require.Len(t, d.Blocks, 2)
	assert.Equal(t, uint64(16), d.Blocks[0].Width)
	assert.Equal(t, uint64(16), d.Blocks[1].Width)
	assert.Equal(t, 2, d.Rows())
}

func TestShortNameForNarrowFields(t *testing.T) {
	d := Layout([]Span{
		{Name: "Transmit power", ShortName: "PWR", Start: 0, Width: 4},
		{Name: "Squelch level", ShortName: "SQL", Start: 4, Width: 8},
		{Name: "Scan", Start: 12, Width: 1},
	})
	require.Len(t, d.Blocks, 3)
	assert.Equal(t, "PWR", d.Blocks[0].Label.Content)
	assert.Equal(t, "Squelch level", d.Blocks[1].Label.Content)
	assert.Equal(t, "Scan", d.Blocks[2].Label.Content)
	assert.Equal(t, "0h:4", d.Blocks[0].Caption.Content)
}

func TestShortNameFollowsFieldWidth(t *testing.T) {
	// 6 bits starting at bit 30: the first fragment is 2 bits wide, the field is not.
	d := Layout([]Span{
		{Name: "Field", ShortName: "F", Start: 30, Width: 6},
		{Name: "Digit", ShortName: "D", Start: 36, Width: 40, Step: 4},
		{Name: "Byte", ShortName: "B", Start: 76, Width: 16, Step: 8},
	})
	assert.Equal(t, uint64(2), blocksOf(d, 0)[0].Width)
	assert.Equal(t, "Field", blocksOf(d, 0)[0].Label.Content)
	assert.Equal(t, "D", blocksOf(d, 1)[0].Label.Content)
	assert.Equal(t, "Byte", blocksOf(d, 2)[0].Label.Content)
}

func TestHugeSpansStayCheap(t *testing.T) {
	tests := []struct {
		name      string
		span      Span
		lastStart uint64
		lastWidth uint64
	}{
		{"16 MiB field", Span{Name: "Blob", Start: 0, Width: 8 << 24}, 8<<24 - 32, 32},
		// The last repetition straddles a row boundary, so only its tail is drawn.
		{"20M repetitions", Span{Name: "Byte", Start: 4, Width: 8 * 20_000_000, Step: 8}, 160_000_000, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			start := time.Now()
			d := Layout([]Span{tt.span})
			elapsed := time.Since(start)
			runtime.ReadMemStats(&after)

			require.Len(t, d.Blocks, 2)
			assert.Equal(t, tt.span.Start, d.Blocks[0].Start)
			assert.Equal(t, tt.lastStart, d.Blocks[1].Start)
			assert.Equal(t, tt.lastWidth, d.Blocks[1].Width)
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
			assert.Less(t, elapsed, time.Second)
		})
	}
}

func TestZeroWidthAndEmpty(t *testing.T) {
	d := Layout([]Span{{Name: "nothing", Start: 0, Width: 0}})
	assert.Empty(t, d.Blocks)
	assert.Empty(t, d.RowLabels)
	assert.Len(t, d.ColumnLabels, 32)
	assert.Equal(t, 2*Margin+ColumnHeader, d.Height)
}

func TestColumnLabels(t *testing.T) {
	d := Layout(nil)
	var got []string
	for _, c := range d.ColumnLabels[:10] {
		got = append(got, c.Content)
	}
	assert.Equal(t, []string{"7", "6", "5", "4", "3", "2", "1", "0", "7", "6"}, got)
}

func TestPrimitivesAndDeterminism(t *testing.T) {
	spans := []Span{
		{Name: "A", Start: 0, Width: 8},
		{Name: "B", Start: 8, Width: 24 * 5, Step: 24},
	}
	d := Layout(spans)
	prims := d.Primitives()

	// 32 column labels, row labels, then rect+label+caption for first
	// fragments and rect+label for the rest.
	want := 32 + len(d.RowLabels)
	for _, b := range d.Blocks {
		want += 2
		if b.First {
			want++
		}
	}
	assert.Len(t, prims, want)
	_, isText := prims[0].(Text)
	assert.True(t, isText)

	assert.Equal(t, d, Layout(spans))
}

func TestFromElement(t *testing.T) {
	el := &schema.Element{}
	name := &schema.StringField{Chars: 16}
	name.Meta().Name = "Name"
	require.NoError(t, el.Add(name))

	digit := &schema.IntegerField{Width: offset.Bits(4), Format: schema.BCD}
	digit.Meta().Name = "Digit"
	digit.Meta().ShortName = "D"
	digits := &schema.FixedRepeat{N: 6}
	require.NoError(t, digits.Add(digit))
	require.NoError(t, el.Add(digits))

	spans := Spans(el)
	require.Len(t, spans, 2)
	assert.Equal(t, Span{Name: "Name", Start: 0, Width: 128}, spans[0])
	assert.Equal(t, Span{Name: "Digit", ShortName: "D", Start: 128, Width: 24, Step: 4}, spans[1])

	d := FromElement(el)
	digitBlocks := blocksOf(d, 1)
	require.Len(t, digitBlocks, 2)
	assert.Equal(t, "D", digitBlocks[0].Label.Content)
	assert.Equal(t, uint64(128+20), digitBlocks[1].Start)
}
