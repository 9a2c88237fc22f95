package linecode

import (
	"fmt"
	"strings"
)

// Bit is a single logical binary digit, 0 or 1
type Bit uint8

// Bitstream is an ordered sequence of logical bits
type Bitstream []Bit

// Validate reports whether s is made only of '0' and '1'
func Validate(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return fmt.Errorf("%w: %q at position %d", ErrInvalidSymbol, s[i], i)
		}
	}
	return nil
}

// ParseBits converts a textual bitstream into a Bitstream
func ParseBits(s string) (Bitstream, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}
	bits := make(Bitstream, len(s))
	for i := 0; i < len(s); i++ {
		bits[i] = Bit(s[i] - '0')
	}
	return bits, nil
}

// MustParseBits is ParseBits for literals known to be valid
func MustParseBits(s string) Bitstream {
	bits, err := ParseBits(s)
	if err != nil {
		panic(err)
	}
	return bits
}

// String renders the bitstream as '0'/'1' characters
func (b Bitstream) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, bit := range b {
		sb.WriteByte('0' + byte(bit&1))
	}
	return sb.String()
}

// Equal reports whether two bitstreams hold the same bits
func (b Bitstream) Equal(other Bitstream) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if b[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no storage with b
func (b Bitstream) Clone() Bitstream {
	if b == nil {
		return nil
	}
	out := make(Bitstream, len(b))
	copy(out, b)
	return out
}
