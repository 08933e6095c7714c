// Package offset provides bit-precise addresses and sizes for memory layouts.
//
// Both types count bits from the origin. Their canonical text form is
// "<hex-bytes>h" optionally followed by ":<bit>" for a bit remainder, e.g.
// "10h" (16 bytes), "0h:4" (4 bits) or "1h:3" (11 bits).
package offset

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// limit is where arithmetic saturates instead of wrapping.
const limit = math.MaxUint64

// Size is a non-negative extent in bits.
type Size struct {
	bits uint64
}

// Address is an absolute position in bits from the origin.
type Address struct {
	bits uint64
}

// Bits returns a Size of n bits. Negative values yield zero.
func Bits(n int64) Size {
	if n < 0 {
		return Size{}
	}
	return Size{bits: uint64(n)}
}

// Bytes returns a Size of n bytes. Negative values yield zero.
func Bytes(n int64) Size {
	if n < 0 {
		return Size{}
	}
	return Size{bits: 8}.mul(uint64(n))
}

// Bits returns the size in bits.
func (s Size) Bits() uint64 { return s.bits }

// Bytes returns the number of whole bytes; the bit remainder is dropped.
func (s Size) Bytes() uint64 { return s.bits / 8 }

// ByteCount returns the number of bytes needed to hold the size.
func (s Size) ByteCount() uint64 { return (s.bits + 7) / 8 }

// Remainder returns the bits beyond the last whole byte.
func (s Size) Remainder() uint64 { return s.bits % 8 }

// IsZero reports whether the size is empty.
func (s Size) IsZero() bool { return s.bits == 0 }

// IsSaturated reports whether arithmetic producing s ran past the largest
// representable size.
func (s Size) IsSaturated() bool { return s.bits == limit }

// Add returns s+o, saturating at the largest representable size.
func (s Size) Add(o Size) Size { return Size{bits: addSat(s.bits, o.bits)} }

// Mul returns s repeated n times, saturating at the largest representable
// size. Negative counts yield zero.
func (s Size) Mul(n int) Size {
	if n <= 0 {
		return Size{}
	}
	return s.mul(uint64(n))
}

func (s Size) mul(n uint64) Size {
	hi, lo := bits.Mul64(s.bits, n)
	if hi != 0 {
		return Size{bits: limit}
	}
	return Size{bits: lo}
}

func addSat(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return limit
	}
	return sum
}

// Less reports whether s is smaller than o.
func (s Size) Less(o Size) bool { return s.bits < o.bits }

func (s Size) String() string { return format(s.bits) }

// MarshalText implements encoding.TextMarshaler.
func (s Size) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Size) UnmarshalText(text []byte) error {
	v, err := ParseSize(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// At returns the address n bits from the origin. Negative values yield zero.
func At(n int64) Address {
	if n < 0 {
		return Address{}
	}
	return Address{bits: uint64(n)}
}

// Origin returns the zero address.
func Origin() Address { return Address{} }

// Bits returns the address in bits from the origin.
func (a Address) Bits() uint64 { return a.bits }

// Byte returns the whole byte part of the address.
func (a Address) Byte() uint64 { return a.bits / 8 }

// Bit returns the bit within the addressed byte.
func (a Address) Bit() uint64 { return a.bits % 8 }

// Add returns the address s bits past a, saturating at the largest
// representable address.
func (a Address) Add(s Size) Address { return Address{bits: addSat(a.bits, s.bits)} }

// IsSaturated reports whether a ran past the largest representable address.
func (a Address) IsSaturated() bool { return a.bits == limit }

// Sub returns the distance from o to a, or zero if o lies past a.
func (a Address) Sub(o Address) Size {
	if o.bits > a.bits {
		return Size{}
	}
	return Size{bits: a.bits - o.bits}
}

// Less reports whether a precedes o.
func (a Address) Less(o Address) bool { return a.bits < o.bits }

func (a Address) String() string { return format(a.bits) }

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	v, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// SyntaxError reports text that does not match the canonical grammar.
type SyntaxError struct {
	Text   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid offset %q: %s (want <hex-bytes>h[:<bit>])", e.Text, e.Reason)
}

// ParseSize parses the canonical size form.
func ParseSize(text string) (Size, error) {
	bits, err := parse(text)
	if err != nil {
		return Size{}, err
	}
	return Size{bits: bits}, nil
}

// ParseAddress parses the canonical address form.
func ParseAddress(text string) (Address, error) {
	bits, err := parse(text)
	if err != nil {
		return Address{}, err
	}
	return Address{bits: bits}, nil
}

func parse(text string) (uint64, error) {
	s := strings.TrimSpace(text)
	bytePart, bitPart, hasBit := strings.Cut(s, ":")
	if !strings.HasSuffix(bytePart, "h") && !strings.HasSuffix(bytePart, "H") {
		return 0, &SyntaxError{Text: text, Reason: "missing 'h' suffix"}
	}
	hex := bytePart[:len(bytePart)-1]
	if hex == "" {
		return 0, &SyntaxError{Text: text, Reason: "missing byte count"}
	}
	nbytes, err := strconv.ParseUint(hex, 16, 61)
	if err != nil {
		return 0, &SyntaxError{Text: text, Reason: "byte count is not hexadecimal"}
	}
	bits := nbytes * 8
	if hasBit {
		b, err := strconv.ParseUint(bitPart, 10, 8)
		if err != nil || b > 7 {
			return 0, &SyntaxError{Text: text, Reason: "bit must be 0..7"}
		}
		bits += b
	}
	return bits, nil
}

func format(bits uint64) string {
	if r := bits % 8; r != 0 {
		return fmt.Sprintf("%Xh:%d", bits/8, r)
	}
	return fmt.Sprintf("%Xh", bits/8)
}
