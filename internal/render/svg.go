package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/cpdgen/internal/diagram"
)

const (
	svgNamespace = "http://www.w3.org/2000/svg"
	blockFill    = "#dbe8f6"
	blockStroke  = "#2a4d74"
)

// SVG builds the <svg> element for a diagram.
func SVG(d *diagram.Diagram) *html.Node {
	root := element("svg",
		"xmlns", svgNamespace,
		"width", strconv.Itoa(d.Width),
		"height", strconv.Itoa(d.Height),
		"viewBox", fmt.Sprintf("0 0 %d %d", d.Width, d.Height),
		"font-family", "sans-serif",
		"font-size", "12")

	for _, p := range d.Primitives() {
		switch v := p.(type) {
		case diagram.Rect:
			root.AppendChild(element("path",
				"d", roundedPath(v),
				"fill", blockFill,
				"stroke", blockStroke))
		case diagram.Text:
			root.AppendChild(svgText(v))
		}
	}
	return root
}

// WriteSVG writes a diagram as a standalone SVG file.
func WriteSVG(w io.Writer, d *diagram.Diagram) error {
	if _, err := io.WriteString(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"); err != nil {
		return err
	}
	return html.Render(w, SVG(d))
}

func svgText(t diagram.Text) *html.Node {
	anchor := "start"
	switch t.Align {
	case diagram.AlignMiddle:
		anchor = "middle"
	case diagram.AlignEnd:
		anchor = "end"
	}
	n := element("text",
		"x", strconv.Itoa(t.X),
		"y", strconv.Itoa(t.Y),
		"text-anchor", anchor,
		"dominant-baseline", "middle")
	n.AppendChild(textNode(t.Content))
	return n
}

// roundedPath traces r clockwise from the top-left, rounding the corners
// selected in r.Corners.
func roundedPath(r diagram.Rect) string {
	radius := func(c diagram.Corners) int {
		if r.Corners&c != 0 {
			return r.Radius
		}
		return 0
	}
	tl, tr := radius(diagram.TopLeft), radius(diagram.TopRight)
	br, bl := radius(diagram.BottomRight), radius(diagram.BottomLeft)
	x0, y0, x1, y1 := r.X, r.Y, r.X+r.W, r.Y+r.H

	var b strings.Builder
	fmt.Fprintf(&b, "M%d,%d H%d", x0+tl, y0, x1-tr)
	arc(&b, tr, x1, y0+tr)
	fmt.Fprintf(&b, " V%d", y1-br)
	arc(&b, br, x1-br, y1)
	fmt.Fprintf(&b, " H%d", x0+bl)
	arc(&b, bl, x0, y1-bl)
	fmt.Fprintf(&b, " V%d", y0+tl)
	arc(&b, tl, x0+tl, y0)
	b.WriteString(" Z")
	return b.String()
}

func arc(b *strings.Builder, r, x, y int) {
	if r == 0 {
		return
	}
	fmt.Fprintf(b, " A%d,%d 0 0 1 %d,%d", r, r, x, y)
}

// element creates an element node from alternating attribute keys and values.
func element(tag string, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
