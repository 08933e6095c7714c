package source

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/dgallion1/cpdgen/internal/builder"
	"github.com/dgallion1/cpdgen/internal/schema"
)

// XMLParser streams XML tokens into the builder.
type XMLParser struct{}

func (p *XMLParser) Parse(r io.Reader, filename string) (*schema.Codeplug, error) {
	decoder := xml.NewDecoder(r)
	b := builder.New()

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing XML %s: %w", filename, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			attrs := make(map[string]string, len(t.Attr))
			for _, a := range t.Attr {
				attrs[a.Name.Local] = a.Value
			}
			err = b.Open(t.Name.Local, attrs)
		case xml.EndElement:
			err = b.Close(t.Name.Local)
		case xml.CharData:
			err = b.Text(string(t))
		}
		if err != nil {
			line, col := decoder.InputPos()
			return nil, &PositionError{File: filename, Line: line, Column: col, Err: err}
		}
	}
	return b.Finish()
}
