package render

import (
	"fmt"
	"io"

	"golang.org/x/net/html"

	"github.com/dgallion1/cpdgen/internal/doctree"
)

const stylesheet = `body{font-family:sans-serif;max-width:60em;margin:auto;padding:1em}
nav ul{list-style:none;padding-left:1.2em}
table{border-collapse:collapse}
th,td{border:1px solid #999;padding:.2em .5em;text-align:left}
figure{margin:1em 0}
.subtitle{color:#555}
.symbol{font-weight:bold;margin-left:.3em}
.symbol.okay{color:#2e7d32}
.symbol.warning{color:#ef6c00}
.symbol.critical{color:#c62828}
.version{font-style:italic;margin-left:.3em}`

// HTMLRenderer writes a single self-contained HTML page with the diagrams
// inlined as SVG.
type HTMLRenderer struct{}

func (r *HTMLRenderer) Render(w io.Writer, doc *doctree.Document) error {
	if !doc.Indexed() {
		return ErrNotIndexed
	}
	page := &html.Node{Type: html.DocumentNode}
	page.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element("html")
	page.AppendChild(root)

	head := element("head")
	head.AppendChild(element("meta", "charset", "utf-8"))
	head.AppendChild(withText(element("title"), doc.Title))
	head.AppendChild(withText(element("style"), stylesheet))
	root.AppendChild(head)

	body := element("body")
	root.AppendChild(body)

	header := element("header")
	header.AppendChild(withText(element("h1"), doc.Title))
	if doc.Subtitle != "" {
		header.AppendChild(withText(element("p", "class", "subtitle"), doc.Subtitle))
	}
	body.AppendChild(header)

	if toc := navigation(doc.Segments); toc != nil {
		nav := element("nav")
		nav.AppendChild(toc)
		body.AppendChild(nav)
	}

	main := element("main")
	for _, s := range doc.Segments {
		main.AppendChild(htmlSegment(doc, s))
	}
	body.AppendChild(main)

	if err := html.Render(w, page); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// navigation lists the sections below segs, or returns nil if there are none.
func navigation(segs []doctree.Segment) *html.Node {
	var list *html.Node
	for _, s := range segs {
		sec, ok := s.(*doctree.Section)
		if !ok {
			continue
		}
		if list == nil {
			list = element("ul")
		}
		item := element("li")
		item.AppendChild(withText(element("a", "href", "#"+sec.ID), heading(sec)))
		if sub := navigation(sec.Children); sub != nil {
			item.AppendChild(sub)
		}
		list.AppendChild(item)
	}
	return list
}

func htmlSegment(doc *doctree.Document, s doctree.Segment) *html.Node {
	switch v := s.(type) {
	case *doctree.Section:
		n := element("section", "id", v.ID)
		h := withText(element(fmt.Sprintf("h%d", min(v.Level()+1, 6))), heading(v))
		if v.Subtitle != "" {
			h.AppendChild(textNode(" "))
			h.AppendChild(withText(element("small", "class", "subtitle"), v.Subtitle))
		}
		n.AppendChild(h)
		for _, c := range v.Children {
			n.AppendChild(htmlSegment(doc, c))
		}
		return n

	case *doctree.Paragraph:
		n := element("div", "class", "paragraph", "id", v.ID)
		if v.Title != "" {
			t := withText(element("h6"), v.Title)
			if v.Subtitle != "" {
				t.AppendChild(textNode(" "))
				t.AppendChild(withText(element("small", "class", "subtitle"), "("+v.Subtitle+")"))
			}
			n.AppendChild(t)
		}
		p := element("p")
		appendSpans(doc, p, v.Spans)
		n.AppendChild(p)
		return n

	case *doctree.Table:
		n := element("figure", "class", "table", "id", v.ID)
		n.AppendChild(withText(element("figcaption"), caption(v)))
		table := element("table")
		if len(v.Heading) > 0 {
			thead := element("thead")
			thead.AppendChild(htmlRow(doc, "th", v.Heading))
			table.AppendChild(thead)
		}
		tbody := element("tbody")
		for _, row := range v.Rows {
			tbody.AppendChild(htmlRow(doc, "td", row))
		}
		table.AppendChild(tbody)
		n.AppendChild(table)
		return n

	case *doctree.Figure:
		n := element("figure", "class", "diagram", "id", v.ID)
		if v.Diagram != nil {
			n.AppendChild(SVG(v.Diagram))
		}
		n.AppendChild(withText(element("figcaption"), caption(v)))
		return n
	}
	return textNode("")
}

func htmlRow(doc *doctree.Document, cell string, cells []*doctree.Paragraph) *html.Node {
	tr := element("tr")
	for _, c := range cells {
		td := element(cell)
		appendSpans(doc, td, c.Spans)
		tr.AppendChild(td)
	}
	return tr
}

func appendSpans(doc *doctree.Document, parent *html.Node, spans []doctree.Span) {
	for _, s := range spans {
		switch v := s.(type) {
		case doctree.Text:
			parent.AppendChild(textNode(string(v)))
		case doctree.Reference:
			if target, ok := doc.Resolve(v.Target); ok {
				parent.AppendChild(withText(element("a", "href", "#"+target.Head().ID), doc.RefText(v)))
			} else {
				parent.AppendChild(textNode(doc.RefText(v)))
			}
		case doctree.Symbol:
			parent.AppendChild(withText(
				element("span", "class", "symbol "+v.String(), "title", v.String()),
				symbolGlyph(v)))
		case doctree.Version:
			parent.AppendChild(withText(element("span", "class", "version"), "Version "+string(v)))
		}
	}
}

func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(textNode(s))
	return n
}
