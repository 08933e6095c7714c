package docgen

import (
	"github.com/dgallion1/cpdgen/internal/catalog"
	"github.com/dgallion1/cpdgen/internal/doctree"
)

// GenerateCatalog documents every model of cat with one nested section per
// firmware release holding that release's codeplug.
func GenerateCatalog(cat *catalog.Catalog, title, subtitle string) (*doctree.Document, error) {
	doc := &doctree.Document{Title: title, Subtitle: subtitle}
	g := &generator{doc: doc}
	for _, m := range cat.Models {
		sec, err := g.model(m)
		if err != nil {
			return nil, err
		}
		doc.Add(sec)
	}
	return doc, nil
}

func (g *generator) model(m *catalog.Model) (*doctree.Section, error) {
	sec := &doctree.Section{Header: doctree.Header{Title: m.Name, Subtitle: m.Manufacturer, Key: g.key()}}
	for _, p := range descriptionParagraphs(m.Description) {
		p.Key = g.key()
		sec.Add(p)
	}
	if m.URL != "" {
		sec.Add(&doctree.Paragraph{
			Header: doctree.Header{Key: g.key()},
			Spans:  []doctree.Span{doctree.Text("Manufacturer page: " + m.URL)},
		})
	}

	if len(m.Firmware) == 0 {
		return sec, nil
	}
	table := &doctree.Table{Header: doctree.Header{Title: "Firmware releases", Key: g.key()}, Columns: 2}
	if err := table.SetHeader(textCell("Firmware"), textCell("Released")); err != nil {
		return nil, err
	}
	sec.Add(table)

	for _, fw := range m.Firmware {
		fwSec, err := g.firmware(fw)
		if err != nil {
			return nil, err
		}
		released := "unknown"
		if !fw.Released.IsZero() {
			released = fw.Released.Format("2006-01-02")
		}
		if err := table.AddRow(doctree.Cell(doctree.Reference{Target: fwSec.Key}), textCell(released)); err != nil {
			return nil, err
		}
		sec.Add(fwSec)
	}
	return sec, nil
}

func (g *generator) firmware(fw *catalog.Firmware) (*doctree.Section, error) {
	sec := &doctree.Section{Header: doctree.Header{Title: "Firmware " + fw.Name, Key: g.key()}}
	para := &doctree.Paragraph{Header: doctree.Header{Key: g.key()}}
	if !fw.Released.IsZero() {
		para.Add(doctree.Text("Released " + fw.Released.Format("2006-01-02") + ". "))
	}
	para.Add(doctree.Version(fw.Name))
	sec.Add(para)

	cp, err := g.codeplug(fw.Codeplug)
	if err != nil {
		return nil, err
	}
	sec.Add(cp)
	return sec, nil
}
