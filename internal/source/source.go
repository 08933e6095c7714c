// Package source reads codeplug schema files and replays them into a
// builder.
package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/cpdgen/internal/schema"
)

// Parser converts a schema file into a Codeplug.
type Parser interface {
	Parse(r io.Reader, filename string) (*schema.Codeplug, error)
}

// SupportedExtensions lists file extensions with a parser.
var SupportedExtensions = map[string]bool{
	".xml":  true,
	".yaml": true,
	".yml":  true,
}

// ForFile returns the parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xml":
		return &XMLParser{}, nil
	case ".yaml", ".yml":
		return &YAMLParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// LoadFile opens and parses a schema file.
func LoadFile(path string) (*schema.Codeplug, error) {
	p, err := ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Parse(f, path)
}

// PositionError locates a parse or build error in the input.
type PositionError struct {
	File   string
	Line   int
	Column int
	Err    error
}

func (e *PositionError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("%s:%d:%d: %v", e.File, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *PositionError) Unwrap() error { return e.Err }
