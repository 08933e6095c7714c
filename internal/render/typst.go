package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/cpdgen/internal/doctree"
)

// TypstRenderer writes Typst markup. Every segment carries its id as a
// label; figures reference <id>.svg files that the caller writes next to
// the output with WriteSVG.
type TypstRenderer struct{}

var typstEscaper = strings.NewReplacer(
	`\`, `\\`, `#`, `\#`, `*`, `\*`, `_`, `\_`, "`", "\\`",
	`[`, `\[`, `]`, `\]`, `<`, `\<`, `>`, `\>`, `@`, `\@`, `$`, `\$`, `~`, `\~`,
)

func typstEscape(s string) string { return typstEscaper.Replace(s) }

// typstString quotes s as a Typst string literal.
func typstString(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func (r *TypstRenderer) Render(w io.Writer, doc *doctree.Document) error {
	if !doc.Indexed() {
		return ErrNotIndexed
	}
	var b strings.Builder
	fmt.Fprintf(&b, "#set document(title: %s)\n", typstString(doc.Title))
	b.WriteString("#set heading(numbering: \"1.1\")\n\n")
	fmt.Fprintf(&b, "#align(center, text(20pt)[*%s*])\n", typstEscape(doc.Title))
	if doc.Subtitle != "" {
		fmt.Fprintf(&b, "#align(center)[%s]\n", typstEscape(doc.Subtitle))
	}
	b.WriteString("\n#outline()\n")

	for _, s := range doc.Segments {
		typstSegment(&b, doc, s)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func typstSegment(b *strings.Builder, doc *doctree.Document, s doctree.Segment) {
	switch v := s.(type) {
	case *doctree.Section:
		fmt.Fprintf(b, "\n%s %s", strings.Repeat("=", v.Level()), typstEscape(doctree.Title(v)))
		if v.Subtitle != "" {
			fmt.Fprintf(b, " #text(size: 0.8em)[(%s)]", typstEscape(v.Subtitle))
		}
		fmt.Fprintf(b, " <%s>\n", v.ID)
		for _, c := range v.Children {
			typstSegment(b, doc, c)
		}

	case *doctree.Paragraph:
		b.WriteString("\n#block[")
		if v.Title != "" {
			fmt.Fprintf(b, "*%s*", typstEscape(v.Title))
			if v.Subtitle != "" {
				fmt.Fprintf(b, " (%s)", typstEscape(v.Subtitle))
			}
			b.WriteString(" \\\n")
		}
		typstSpans(b, doc, v.Spans)
		fmt.Fprintf(b, "] <%s>\n", v.ID)

	case *doctree.Table:
		fmt.Fprintf(b, "\n#figure(\n  table(\n    columns: %d,\n", v.Columns)
		if len(v.Heading) > 0 {
			b.WriteString("    table.header(")
			for i, c := range v.Heading {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString("[*")
				typstSpans(b, doc, c.Spans)
				b.WriteString("*]")
			}
			b.WriteString("),\n")
		}
		for _, row := range v.Rows {
			b.WriteString("    ")
			for _, c := range row {
				b.WriteString("[")
				typstSpans(b, doc, c.Spans)
				b.WriteString("], ")
			}
			b.WriteString("\n")
		}
		fmt.Fprintf(b, "  ),\n  caption: [%s],\n) <%s>\n", typstEscape(v.Title), v.ID)

	case *doctree.Figure:
		fmt.Fprintf(b, "\n#figure(\n  image(%s),\n  caption: [%s],\n) <%s>\n",
			typstString(FigureFile(v)), typstEscape(v.Title), v.ID)
	}
}

func typstSpans(b *strings.Builder, doc *doctree.Document, spans []doctree.Span) {
	for _, s := range spans {
		switch v := s.(type) {
		case doctree.Text:
			b.WriteString(typstEscape(string(v)))
		case doctree.Reference:
			text := typstEscape(doc.RefText(v))
			if target, ok := doc.Resolve(v.Target); ok {
				fmt.Fprintf(b, "#link(<%s>)[%s]", target.Head().ID, text)
			} else {
				b.WriteString(text)
			}
		case doctree.Symbol:
			switch v {
			case doctree.Okay:
				b.WriteString(" #sym.checkmark")
			case doctree.Warning:
				b.WriteString(" #sym.excl")
			case doctree.Critical:
				b.WriteString(" #sym.excl.double")
			}
		case doctree.Version:
			fmt.Fprintf(b, " #emph[Version %s]", typstEscape(string(v)))
		}
	}
}
