package docgen

import (
	"fmt"
	"strings"

	"github.com/dgallion1/cpdgen/internal/schema"
)

func integerSentence(f *schema.IntegerField) string {
	bits := f.Width.Bits()
	var b strings.Builder
	switch {
	case bits == 1:
		b.WriteString("1-bit boolean value")
	case bits <= 8:
		fmt.Fprintf(&b, "%d-bit %s value (%s)", bits, f.Format, f.FormatTag())
	default:
		fmt.Fprintf(&b, "%d-bit %s %s-endian value (%s)", bits, f.Format, f.Endian, f.FormatTag())
	}
	if f.Default != nil {
		fmt.Fprintf(&b, ", default %Xh", *f.Default)
	}
	switch {
	case f.Min != nil && f.Max != nil:
		fmt.Fprintf(&b, ", range [%d, %d]", *f.Min, *f.Max)
	case f.Min != nil:
		fmt.Fprintf(&b, ", at least %d", *f.Min)
	case f.Max != nil:
		fmt.Fprintf(&b, ", at most %d", *f.Max)
	}
	return b.String()
}

func stringSentence(f *schema.StringField) string {
	return fmt.Sprintf("%s string of length up to %d chars (size %db), %02Xh-padded",
		f.Encoding, f.Chars, f.Size().Bytes(), f.Fill)
}

func enumSentence(f *schema.EnumField) string {
	return fmt.Sprintf("Enumeration of size %s, with %d options", f.Width, len(f.Items()))
}

func unusedSentence(f *schema.UnusedField) string {
	s := "Unused data of size " + f.Width.String()
	if len(f.Content) == 0 {
		return s
	}
	hex := make([]string, len(f.Content))
	for i, c := range f.Content {
		hex[i] = fmt.Sprintf("%02X", c)
	}
	return s + ": " + strings.Join(hex, " ")
}

func unknownSentence(f *schema.UnknownField) string {
	return "Unknown data of size " + f.Width.String()
}
