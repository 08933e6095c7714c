package builder

import (
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"

	"github.com/dgallion1/cpdgen/internal/offset"
	"github.com/dgallion1/cpdgen/internal/schema"
)

// attrs wraps the attributes of one open event and reports the first
// malformed value as a ParseError.
type attrs struct {
	tag    string
	values map[string]string
	err    error
}

func (a *attrs) fail(key, value, reason string, err error) {
	if a.err == nil {
		a.err = &ParseError{Tag: a.tag, Attr: key, Value: value, Reason: reason, Err: err}
	}
}

func (a *attrs) lookup(key string, required bool) (string, bool) {
	v, ok := a.values[key]
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		if required {
			a.fail(key, "", "missing required attribute", nil)
		}
		return "", false
	}
	return v, true
}

func (a *attrs) size(key string, required bool) offset.Size {
	v, ok := a.lookup(key, required)
	if !ok {
		return offset.Size{}
	}
	s, err := offset.ParseSize(v)
	if err != nil {
		a.fail(key, v, "invalid size", err)
	}
	return s
}

func (a *attrs) address(p schema.Pattern) {
	v, ok := a.lookup("at", false)
	if !ok {
		return
	}
	at, err := offset.ParseAddress(v)
	if err != nil {
		a.fail("at", v, "invalid address", err)
		return
	}
	p.SetAddress(at)
}

func (a *attrs) integer(key string, required bool) (int64, bool) {
	v, ok := a.lookup(key, required)
	if !ok {
		return 0, false
	}
	n, err := parseInteger(v)
	if err != nil {
		a.fail(key, v, "not an integer", err)
		return 0, false
	}
	return n, true
}

// parseInteger reads decimal, or hex with an explicit 0x prefix. Leading
// zeros are decimal: "010" is ten.
func parseInteger(v string) (int64, error) {
	digits := strings.TrimLeft(v, "+-")
	if len(v)-len(digits) > 1 {
		return 0, strconv.ErrSyntax
	}
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		hexDigits := digits[2:]
		if hexDigits == "" || strings.ContainsAny(hexDigits[:1], "+-") {
			return 0, strconv.ErrSyntax
		}
		n, err := strconv.ParseInt(hexDigits, 16, 64)
		if err != nil {
			return 0, err
		}
		if strings.HasPrefix(v, "-") {
			n = -n
		}
		return n, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func (a *attrs) optional(key string) *int64 {
	if n, ok := a.integer(key, false); ok {
		return &n
	}
	return nil
}

func (a *attrs) count(key string) int {
	n, _ := a.integer(key, false)
	if n < 0 {
		a.fail(key, a.values[key], "must not be negative", nil)
		return 0
	}
	return int(n)
}

// choice returns the index of the attribute value in options, or 0 when absent.
func (a *attrs) choice(key string, options ...string) int {
	v, ok := a.lookup(key, false)
	if !ok {
		return 0
	}
	for i, o := range options {
		if strings.EqualFold(v, o) {
			return i
		}
	}
	a.fail(key, v, "expected one of "+strings.Join(options, ", "), nil)
	return 0
}

// parseHex decodes hex digits, ignoring whitespace between them.
func parseHex(text string) ([]byte, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	return hex.DecodeString(digits)
}

// dedent trims surrounding blank lines and the indentation common to all
// non-blank lines, so descriptions nested in indented markup stay Markdown.
func dedent(text string) string {
	lines := strings.Split(strings.Trim(text, "\n\r"), "\n")
	prefix := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if prefix < 0 || n < prefix {
			prefix = n
		}
	}
	for i, l := range lines {
		switch {
		case strings.TrimSpace(l) == "":
			lines[i] = ""
		case prefix > 0:
			lines[i] = l[prefix:]
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
