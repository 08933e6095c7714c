package builder

import (
	"github.com/dgallion1/cpdgen/internal/schema"
)

// newPattern creates the pattern for an open tag from its attributes.
func newPattern(tag string, values map[string]string) (schema.Pattern, error) {
	a := &attrs{tag: tag, values: values}
	var p schema.Pattern

	switch tag {
	case "element":
		p = &schema.Element{}

	case "repeat":
		switch {
		case has(values, "n"):
			p = &schema.FixedRepeat{N: a.count("n")}
		case has(values, "step"):
			p = &schema.SparseRepeat{Step: a.size("step", true), Min: a.count("min"), Max: a.count("max")}
		default:
			p = &schema.BlockRepeat{Min: a.count("min"), Max: a.count("max")}
		}

	case "int":
		p = &schema.IntegerField{
			Width:   a.size("width", true),
			Endian:  schema.Endian(a.choice("endian", "little", "big")),
			Format:  schema.IntFormat(a.choice("format", "unsigned", "signed", "bcd")),
			Min:     a.optional("min"),
			Max:     a.optional("max"),
			Default: a.optional("default"),
		}

	case "string":
		chars, _ := a.integer("width", true)
		pad, _ := a.integer("pad", false)
		if pad < 0 || pad > 0xff {
			a.fail("pad", values["pad"], "fill byte must be 0..255", nil)
		}
		p = &schema.StringField{
			Chars:    int(chars),
			Encoding: schema.StringEncoding(a.choice("format", "ascii", "unicode")),
			Fill:     byte(pad),
		}

	case "enum":
		p = &schema.EnumField{
			Width:   a.size("width", true),
			Default: a.optional("default"),
		}

	case "unused":
		p = &schema.UnusedField{Width: a.size("width", true)}

	case "unknown":
		p = &schema.UnknownField{Width: a.size("width", true)}

	default:
		return nil, &ParseError{Tag: tag, Reason: "unknown tag"}
	}

	a.address(p)
	if a.err != nil {
		return nil, a.err
	}
	return p, nil
}

func has(values map[string]string, key string) bool {
	_, ok := values[key]
	return ok
}
