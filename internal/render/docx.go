package render

import (
	"fmt"
	"io"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/cpdgen/internal/doctree"
)

// DOCXRenderer writes a Word document. Sections become Heading<n>
// paragraphs; figures are listed by caption with the name of their SVG
// file, since the package only embeds raster images.
type DOCXRenderer struct{}

func (r *DOCXRenderer) Render(w io.Writer, doc *doctree.Document) error {
	if !doc.Indexed() {
		return ErrNotIndexed
	}
	out := docx.New().WithDefaultTheme()

	out.AddParagraph().Style("Title").AddText(doc.Title).Bold().Size("40")
	if doc.Subtitle != "" {
		out.AddParagraph().Style("Subtitle").AddText(doc.Subtitle).Italic()
	}
	for _, s := range doc.Segments {
		docxSegment(out, doc, s)
	}

	if _, err := out.WriteTo(w); err != nil {
		return fmt.Errorf("render docx: %w", err)
	}
	return nil
}

func docxSegment(out *docx.Docx, doc *doctree.Document, s doctree.Segment) {
	switch v := s.(type) {
	case *doctree.Section:
		h := out.AddParagraph().Style(fmt.Sprintf("Heading%d", min(v.Level(), 6)))
		h.AddText(heading(v))
		if v.Subtitle != "" {
			h.AddText(" (" + v.Subtitle + ")").Italic()
		}
		for _, c := range v.Children {
			docxSegment(out, doc, c)
		}

	case *doctree.Paragraph:
		p := out.AddParagraph()
		if v.Title != "" {
			p.AddText(v.Title).Bold()
			if v.Subtitle != "" {
				p.AddText(" (" + v.Subtitle + ")").Italic()
			}
			p.AddText(": ")
		}
		docxSpans(p, doc, v.Spans)

	case *doctree.Table:
		out.AddParagraph().Style("Caption").AddText(caption(v)).Bold()
		rows := len(v.Rows)
		offset := 0
		if len(v.Heading) > 0 {
			rows++
			offset = 1
		}
		if rows == 0 || v.Columns == 0 {
			return
		}
		table := out.AddTable(rows, v.Columns, 0, nil)
		if offset == 1 {
			for j, c := range v.Heading {
				para := table.TableRows[0].TableCells[j].AddParagraph()
				para.AddText(doc.PlainText(c.Spans)).Bold()
			}
		}
		for i, row := range v.Rows {
			for j, c := range row {
				docxSpans(table.TableRows[i+offset].TableCells[j].AddParagraph(), doc, c.Spans)
			}
		}

	case *doctree.Figure:
		p := out.AddParagraph().Style("Caption")
		p.AddText(caption(v)).Bold()
		if v.Diagram != nil {
			p.AddText(" [" + FigureFile(v) + "]").Italic()
		}
	}
}

func docxSpans(p *docx.Paragraph, doc *doctree.Document, spans []doctree.Span) {
	for _, s := range spans {
		switch v := s.(type) {
		case doctree.Text:
			p.AddText(string(v))
		case doctree.Reference:
			p.AddText(doc.RefText(v)).Underline("single")
		case doctree.Symbol:
			run := p.AddText(" " + symbolGlyph(v)).Bold()
			switch v {
			case doctree.Okay:
				run.Color("2E7D32")
			case doctree.Warning:
				run.Color("EF6C00")
			case doctree.Critical:
				run.Color("C62828")
			}
		case doctree.Version:
			p.AddText(" Version " + string(v)).Italic()
		}
	}
}
