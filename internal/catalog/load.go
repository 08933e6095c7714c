package catalog

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/cpdgen/internal/source"
)

// ignored elements describe device memory and identification. They are
// accepted so real catalogs load but carry nothing the documentation uses.
var ignored = map[string]bool{
	"memory":   true,
	"id":       true,
	"revision": true,
	"map":      true,
}

// LoadFile reads a catalog file. Codeplug paths are resolved relative to the
// catalog's directory.
func LoadFile(path string, log *slog.Logger) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, filepath.Dir(path), log)
}

// IsCatalog reports whether an XML file's root element is <catalog>.
func IsCatalog(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	decoder := xml.NewDecoder(f)
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("error parsing XML %s: %w", path, err)
		}
		if start, ok := token.(xml.StartElement); ok {
			return start.Name.Local == "catalog", nil
		}
	}
}

// Load reads catalog XML from r. Firmware whose codeplug cannot be loaded is
// logged and skipped.
func Load(r io.Reader, base string, log *slog.Logger) (*Catalog, error) {
	if log == nil {
		log = slog.Default()
	}
	l := &loader{base: base, log: log, cat: &Catalog{}}

	decoder := xml.NewDecoder(r)
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing catalog: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			err = l.start(t)
		case xml.EndElement:
			err = l.end(t.Name.Local)
		case xml.CharData:
			l.text.Write(t)
		}
		if err != nil {
			line, _ := decoder.InputPos()
			return nil, fmt.Errorf("catalog line %d: %w", line, err)
		}
	}
	if !l.seenRoot {
		return nil, fmt.Errorf("no <catalog> element in input")
	}
	return l.cat, nil
}

type loader struct {
	base     string
	log      *slog.Logger
	cat      *Catalog
	model    *Model
	firmware *Firmware
	skipping int
	seenRoot bool
	text     strings.Builder
}

func (l *loader) start(t xml.StartElement) error {
	name := t.Name.Local
	if l.skipping > 0 || ignored[name] {
		l.skipping++
		return nil
	}
	l.text.Reset()

	switch name {
	case "catalog":
		if l.seenRoot {
			return fmt.Errorf("nested <catalog>")
		}
		l.seenRoot = true
	case "model":
		if l.model != nil {
			return fmt.Errorf("nested <model>")
		}
		l.model = &Model{}
	case "firmware":
		if l.model == nil {
			return fmt.Errorf("<firmware> outside <model>")
		}
		return l.startFirmware(t.Attr)
	case "name", "description", "manufacturer", "url":
		if l.model == nil {
			return fmt.Errorf("<%s> outside <model>", name)
		}
	default:
		return fmt.Errorf("unknown element <%s>", name)
	}
	return nil
}

func (l *loader) startFirmware(attrs []xml.Attr) error {
	fw := &Firmware{}
	for _, a := range attrs {
		switch a.Name.Local {
		case "name":
			fw.Name = a.Value
		case "released":
			released, err := time.Parse(time.DateOnly, a.Value)
			if err != nil {
				return fmt.Errorf("firmware %q: invalid release date %q: %w", fw.Name, a.Value, err)
			}
			fw.Released = released
		case "codeplug":
			fw.Path = filepath.Join(l.base, a.Value)
		}
	}
	l.firmware = fw
	if fw.Path == "" {
		l.log.Warn("firmware without codeplug", "model", l.model.Name, "firmware", fw.Name)
		return nil
	}

	l.log.Info("loading codeplug", "model", l.model.Name, "firmware", fw.Name, "path", fw.Path)
	cp, err := source.LoadFile(fw.Path)
	if err != nil {
		l.log.Warn("skipping firmware, codeplug failed to load",
			"model", l.model.Name, "firmware", fw.Name, "path", fw.Path, "error", err)
		return nil
	}
	fw.Codeplug = cp
	return nil
}

func (l *loader) end(name string) error {
	if l.skipping > 0 {
		l.skipping--
		return nil
	}
	text := strings.TrimSpace(l.text.String())
	l.text.Reset()

	switch name {
	case "model":
		if l.model.Name == "" {
			l.log.Warn("skipping model without a name")
		} else {
			l.cat.Add(l.model)
		}
		l.model = nil
	case "firmware":
		if l.firmware.Valid() {
			l.model.Add(l.firmware)
		}
		l.firmware = nil
	case "name":
		l.model.Name = text
	case "description":
		l.model.Description = trimLines(text)
	case "manufacturer":
		l.model.Manufacturer = text
	case "url":
		l.model.URL = text
	}
	return nil
}

// trimLines strips the indentation the catalog's own nesting adds to
// multi-line text.
func trimLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
