package docgen

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/cpdgen/internal/doctree"
)

var markdown = goldmark.New()

// descriptionParagraphs turns Markdown into one paragraph per block. Headings
// become titled paragraphs, list items become paragraphs of their own and
// inline markup is flattened to text.
func descriptionParagraphs(src string) []*doctree.Paragraph {
	if strings.TrimSpace(src) == "" {
		return nil
	}
	source := []byte(src)
	root := markdown.Parser().Parse(text.NewReader(source))

	var out []*doctree.Paragraph
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, blockParagraphs(n, source)...)
	}
	return out
}

func blockParagraphs(n ast.Node, src []byte) []*doctree.Paragraph {
	switch node := n.(type) {
	case *ast.Heading:
		return []*doctree.Paragraph{{Header: doctree.Header{Title: inlineText(node, src)}}}
	case *ast.List:
		var out []*doctree.Paragraph
		i := node.Start
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "- "
			if node.IsOrdered() {
				marker = strconv.Itoa(i) + ". "
				i++
			}
			if t := blockText(item, src); t != "" {
				out = append(out, paragraph(marker+t))
			}
		}
		return out
	case *ast.ThematicBreak, *ast.HTMLBlock:
		return nil
	}
	if t := blockText(n, src); t != "" {
		return []*doctree.Paragraph{paragraph(t)}
	}
	return nil
}

// blockText gets the text content of a block node.
func blockText(n ast.Node, src []byte) string {
	switch n.(type) {
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimRight(buf.String(), "\n")
	}
	if c := n.FirstChild(); c != nil && c.Type() == ast.TypeInline {
		return inlineText(n, src)
	}
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := blockText(c, src); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// inlineText flattens the inline children of n.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(src))
				if t.HardLineBreak() || t.SoftLineBreak() {
					buf.WriteByte(' ')
				}
			case *ast.String:
				buf.Write(t.Value)
			case *ast.AutoLink:
				buf.Write(t.Label(src))
			case *ast.RawHTML:
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func paragraph(s string) *doctree.Paragraph {
	return &doctree.Paragraph{Spans: []doctree.Span{doctree.Text(s)}}
}
