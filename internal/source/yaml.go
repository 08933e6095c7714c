package source

import (
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/cpdgen/internal/builder"
	"github.com/dgallion1/cpdgen/internal/schema"
)

// YAMLParser reads the YAML form of a schema. Each node is a single-key
// mapping from tag to body; the body holds the attributes as scalars plus
// the reserved keys meta, text and content:
//
//	codeplug:
//	  meta: {name: Radio}
//	  content:
//	    - element:
//	        at: 0h
//	        meta: {name: Settings, status: needs-review}
//	        content:
//	          - int: {width: 1h, meta: {name: Volume}}
type YAMLParser struct{}

var metaTags = []string{"name", "short-name", "brief", "description", "firmware"}

func (p *YAMLParser) Parse(r io.Reader, filename string) (*schema.Codeplug, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("error parsing YAML %s: %w", filename, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("%s: expected a single YAML document", filename)
	}

	w := &yamlWalker{b: builder.New(), file: filename}
	if err := w.node(doc.Content[0]); err != nil {
		return nil, err
	}
	return w.b.Finish()
}

type yamlWalker struct {
	b    *builder.Builder
	file string
}

func (w *yamlWalker) errorAt(n *yaml.Node, err error) error {
	return &PositionError{File: w.file, Line: n.Line, Column: n.Column, Err: err}
}

// node replays one `tag: body` mapping.
func (w *yamlWalker) node(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return w.errorAt(n, fmt.Errorf("expected a mapping with exactly one tag"))
	}
	tag, body := n.Content[0].Value, n.Content[1]

	attrs := map[string]string{}
	var meta, text, content *yaml.Node
	switch body.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(body.Content); i += 2 {
			k, v := body.Content[i], body.Content[i+1]
			switch k.Value {
			case "meta":
				meta = v
			case "text":
				text = v
			case "content":
				content = v
			default:
				if v.Kind != yaml.ScalarNode {
					return w.errorAt(v, fmt.Errorf("attribute %q must be a scalar", k.Value))
				}
				attrs[k.Value] = v.Value
			}
		}
	case yaml.ScalarNode:
		// A bare scalar body is the node's text, e.g. `unused: ff ff`.
		if body.Tag != "!!null" {
			text = body
		}
	default:
		return w.errorAt(body, fmt.Errorf("body of %q must be a mapping", tag))
	}

	if err := w.b.Open(tag, attrs); err != nil {
		return w.errorAt(n, err)
	}
	if meta != nil {
		if err := w.meta(meta); err != nil {
			return err
		}
	}
	if text != nil {
		if err := w.b.Text(text.Value); err != nil {
			return w.errorAt(text, err)
		}
	}
	if content != nil {
		if content.Kind != yaml.SequenceNode {
			return w.errorAt(content, fmt.Errorf("content must be a list"))
		}
		for _, c := range content.Content {
			if err := w.node(c); err != nil {
				return err
			}
		}
	}
	if err := w.b.Close(tag); err != nil {
		return w.errorAt(n, err)
	}
	return nil
}

func (w *yamlWalker) meta(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return w.errorAt(n, fmt.Errorf("meta must be a mapping"))
	}
	values := map[string]*yaml.Node{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if key.Value != "status" && !slices.Contains(metaTags, key.Value) {
			return w.errorAt(key, &builder.ParseError{Tag: key.Value, Reason: "unknown meta key"})
		}
		values[key.Value] = n.Content[i+1]
	}

	if err := w.b.Open("meta", nil); err != nil {
		return w.errorAt(n, err)
	}
	for _, tag := range metaTags {
		v, ok := values[tag]
		if !ok {
			continue
		}
		if err := w.leaf(v, tag, v.Value); err != nil {
			return err
		}
	}
	if v, ok := values["status"]; ok {
		switch v.Value {
		case "done", "needs-review", "incomplete":
		default:
			return w.errorAt(v, &builder.ParseError{Tag: v.Value, Reason: "unknown status"})
		}
		if err := w.leaf(v, v.Value, ""); err != nil {
			return err
		}
	}
	if err := w.b.Close("meta"); err != nil {
		return w.errorAt(n, err)
	}
	return nil
}

func (w *yamlWalker) leaf(n *yaml.Node, tag, text string) error {
	if err := w.b.Open(tag, nil); err != nil {
		return w.errorAt(n, err)
	}
	if text != "" {
		if err := w.b.Text(text); err != nil {
			return w.errorAt(n, err)
		}
	}
	if err := w.b.Close(tag); err != nil {
		return w.errorAt(n, err)
	}
	return nil
}
