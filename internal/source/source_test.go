package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/cpdgen/internal/builder"
	"github.com/dgallion1/cpdgen/internal/schema"
)

// outline renders a codeplug as one line per pattern so two trees can be
// compared without reflect.
func outline(t *testing.T, cp *schema.Codeplug) string {
	t.Helper()
	var sb strings.Builder
	fmt.Fprintf(&sb, "codeplug %s %s\n", cp.Meta().Name, cp.Meta().Version)
	err := cp.Walk(func(p schema.Pattern, depth int) error {
		at := "-"
		if a, ok := p.Address(); ok {
			at = a.String()
		}
		m := p.Meta()
		fmt.Fprintf(&sb, "%s%s %q at=%s status=%s brief=%q desc=%q",
			strings.Repeat("  ", depth), p.Kind(), m.Name, at, m.Status, m.Brief, m.Description)
		if f, ok := p.(schema.FixedPattern); ok {
			fmt.Fprintf(&sb, " size=%s", f.Size())
		}
		if e, ok := p.(*schema.EnumField); ok {
			for _, it := range e.Items() {
				fmt.Fprintf(&sb, " %d=%s", it.Value, it.Meta().Name)
			}
		}
		if u, ok := p.(*schema.UnusedField); ok {
			fmt.Fprintf(&sb, " content=%x", u.Content)
		}
		sb.WriteByte('\n')
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	return sb.String()
}

func TestLoadFileFormatsAgree(t *testing.T) {
	fromXML, err := LoadFile(filepath.Join("testdata", "banks.xml"))
	if err != nil {
		t.Fatalf("xml: %v", err)
	}
	fromYAML, err := LoadFile(filepath.Join("testdata", "banks.yaml"))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}

	x, y := outline(t, fromXML), outline(t, fromYAML)
	if x != y {
		t.Errorf("outlines differ\nxml:\n%s\nyaml:\n%s", x, y)
	}
}

func TestLoadFileBanks(t *testing.T) {
	cp, err := LoadFile(filepath.Join("testdata", "banks.xml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cp.Meta().Version != "1.2" {
		t.Errorf("version = %q, want 1.2", cp.Meta().Version)
	}
	items := cp.Items()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if _, ok := items[0].(*schema.UnusedField); !ok {
		t.Errorf("items sorted by address: first is %T", items[0])
	}

	banks := items[1].(*schema.SparseRepeat)
	el := banks.Child().(*schema.BlockRepeat).Child().(*schema.Element)
	if got := el.Size().String(); got != "12h" {
		t.Errorf("element size = %s, want 12h", got)
	}
	if want := "One memory channel.\n\n- Name is space padded."; el.Meta().Description != want {
		t.Errorf("description = %q, want %q", el.Meta().Description, want)
	}
	power := el.Children()[1].(*schema.EnumField)
	if power.Meta().Status != schema.StatusNeedsReview {
		t.Errorf("status = %v, want needs-review", power.Meta().Status)
	}
	if len(power.Items()) != 3 || !power.IsDefault(power.Items()[2]) {
		t.Errorf("enum items = %v", power.Items())
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"a.xml", "*source.XMLParser", false},
		{"a.XML", "*source.XMLParser", false},
		{"a.yaml", "*source.YAMLParser", false},
		{"a.yml", "*source.YAMLParser", false},
		{"a.json", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ForFile(%q) expected error", tt.name)
			}
			if IsSupportedExtension(tt.name) {
				t.Errorf("IsSupportedExtension(%q) = true", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("ForFile(%q): %v", tt.name, err)
			continue
		}
		if got := fmt.Sprintf("%T", p); got != tt.want {
			t.Errorf("ForFile(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestXMLErrorPosition(t *testing.T) {
	input := "<codeplug>\n  <element at=\"0h\">\n    <repeat/>\n  </element>\n</codeplug>\n"
	_, err := (&XMLParser{}).Parse(strings.NewReader(input), "bad.xml")
	if err == nil {
		t.Fatal("expected error")
	}
	var pe *PositionError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PositionError, got %T: %v", err, err)
	}
	if pe.Line != 3 {
		t.Errorf("line = %d, want 3", pe.Line)
	}
	var se *schema.StructuralError
	if !errors.As(err, &se) {
		t.Errorf("expected StructuralError inside, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "bad.xml:3:") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestXMLMalformed(t *testing.T) {
	_, err := (&XMLParser{}).Parse(strings.NewReader("<codeplug><element></codeplug>"), "broken.xml")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "broken.xml") {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestYAMLErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
		check func(error) bool
	}{
		{
			name:  "unknown tag",
			input: "codeplug:\n  content:\n    - widget: {width: 1h}\n",
			line:  3,
			check: func(err error) bool {
				var pe *builder.ParseError
				return errors.As(err, &pe)
			},
		},
		{
			name:  "two tags in one node",
			input: "codeplug:\n  content:\n    - int: {width: 1h}\n      enum: {width: 1h}\n",
			line:  3,
		},
		{
			name:  "nested attribute",
			input: "codeplug:\n  content:\n    - int:\n        width: [1, 2]\n",
			line:  4,
		},
		{
			name:  "variable repeat in element",
			input: "codeplug:\n  content:\n    - element:\n        at: 0h\n        content:\n          - repeat: {min: 1}\n",
			line:  6,
			check: func(err error) bool {
				var se *schema.StructuralError
				return errors.As(err, &se)
			},
		},
		{
			name:  "misspelled meta key",
			input: "codeplug:\n  meta:\n    name: Radio\n    nmae: Typo\n",
			line:  4,
			check: func(err error) bool {
				var pe *builder.ParseError
				return errors.As(err, &pe) && pe.Tag == "nmae"
			},
		},
		{
			name:  "unknown status",
			input: "codeplug:\n  meta: {name: Radio, status: finished}\n",
			line:  2,
			check: func(err error) bool {
				var pe *builder.ParseError
				return errors.As(err, &pe)
			},
		},
		{
			name:  "content not a list",
			input: "codeplug:\n  content: {int: {width: 1h}}\n",
			line:  2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&YAMLParser{}).Parse(strings.NewReader(tt.input), "bad.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			var pe *PositionError
			if !errors.As(err, &pe) {
				t.Fatalf("expected PositionError, got %T: %v", err, err)
			}
			if pe.Line != tt.line {
				t.Errorf("line = %d, want %d (%v)", pe.Line, tt.line, err)
			}
			if tt.check != nil && !tt.check(err) {
				t.Errorf("unexpected cause: %v", err)
			}
		})
	}
}

func TestYAMLEmptyDocument(t *testing.T) {
	if _, err := (&YAMLParser{}).Parse(strings.NewReader(""), "empty.yaml"); err == nil {
		t.Error("expected error for empty input")
	}
}
