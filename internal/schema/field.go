package schema

import (
	"fmt"

	"github.com/dgallion1/cpdgen/internal/offset"
)

// Endian is the byte order of a multi-byte integer.
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

func (e Endian) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}

// IntFormat is the encoding of an integer field.
type IntFormat int

const (
	Unsigned IntFormat = iota
	Signed
	BCD
)

func (f IntFormat) String() string {
	switch f {
	case Signed:
		return "signed"
	case BCD:
		return "bcd"
	default:
		return "unsigned"
	}
}

// IntegerField is an integer of Width bits.
type IntegerField struct {
	node
	Width   offset.Size
	Endian  Endian
	Format  IntFormat
	Min     *int64
	Max     *int64
	Default *int64
}

func (f *IntegerField) Kind() Kind        { return KindInteger }
func (f *IntegerField) Size() offset.Size { return f.Width }

// FormatTag returns the short type tag, e.g. uint8, int16 or bcd4.
func (f *IntegerField) FormatTag() string {
	bits := f.Width.Bits()
	switch f.Format {
	case Signed:
		return fmt.Sprintf("int%d", bits)
	case BCD:
		return fmt.Sprintf("bcd%d", bits/4)
	default:
		return fmt.Sprintf("uint%d", bits)
	}
}

// StringEncoding is the character encoding of a string field.
type StringEncoding int

const (
	ASCII StringEncoding = iota
	Unicode
)

func (e StringEncoding) String() string {
	if e == Unicode {
		return "Unicode"
	}
	return "ASCII"
}

// CharSize is the storage size of one character.
func (e StringEncoding) CharSize() offset.Size {
	if e == Unicode {
		return offset.Bytes(2)
	}
	return offset.Bytes(1)
}

// StringField is a fixed-capacity string padded with Fill.
type StringField struct {
	node
	Chars    int
	Encoding StringEncoding
	Fill     byte
}

func (f *StringField) Kind() Kind        { return KindString }
func (f *StringField) Size() offset.Size { return f.Encoding.CharSize().Mul(f.Chars) }

// EnumItem is one named value of an EnumField.
type EnumItem struct {
	Value int64
	meta  Meta
}

func (i *EnumItem) Meta() *Meta { return &i.meta }

// EnumField is an integer of Width bits restricted to named values.
type EnumField struct {
	node
	Width   offset.Size
	Default *int64
	items   []*EnumItem
}

func (f *EnumField) Kind() Kind        { return KindEnum }
func (f *EnumField) Size() offset.Size { return f.Width }

// Add appends an item, keeping declaration order.
func (f *EnumField) Add(item *EnumItem) error {
	if item == nil {
		return structural(f, nil, "nil enum item")
	}
	for _, existing := range f.items {
		if existing.Value == item.Value {
			return structural(f, item, "duplicate value %d", item.Value)
		}
	}
	f.items = append(f.items, item)
	return nil
}

// Items returns the options in declaration order.
func (f *EnumField) Items() []*EnumItem { return f.items }

// IsDefault reports whether item is the declared default.
func (f *EnumField) IsDefault(item *EnumItem) bool {
	return f.Default != nil && *f.Default == item.Value
}

// UnusedField is padding with known content.
type UnusedField struct {
	node
	Width   offset.Size
	Content []byte
}

func (f *UnusedField) Kind() Kind        { return KindUnused }
func (f *UnusedField) Size() offset.Size { return f.Width }

// UnknownField is a span whose meaning is not known.
type UnknownField struct {
	node
	Width offset.Size
}

func (f *UnknownField) Kind() Kind        { return KindUnknown }
func (f *UnknownField) Size() offset.Size { return f.Width }
