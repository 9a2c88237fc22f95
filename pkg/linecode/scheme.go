// Package linecode implements the NRZ, NRZI, Manchester and 4B/5B line codes.
package linecode

import (
	"fmt"
	"strings"
)

// Scheme selects a line code. Each value carries its own transforms and
// noise flip policy.
type Scheme int

const (
	// NRZ maps 1 to a high level and 0 to a low level
	NRZ Scheme = iota
	// NRZI toggles the line level on every 1 bit
	NRZI
	// Manchester sends 0 as "01" and 1 as "10"
	Manchester
	// FourBFiveB replaces each 4-bit group with a 5-bit codeword
	FourBFiveB
)

var schemeNames = [...]string{
	NRZ:        "NRZ",
	NRZI:       "NRZI",
	Manchester: "Manchester",
	FourBFiveB: "4B/5B",
}

// Schemes returns all schemes in report order
func Schemes() []Scheme {
	return []Scheme{NRZ, NRZI, Manchester, FourBFiveB}
}

func (s Scheme) String() string {
	if s.valid() {
		return schemeNames[s]
	}
	return fmt.Sprintf("Scheme(%d)", int(s))
}

func (s Scheme) valid() bool {
	return s >= NRZ && s <= FourBFiveB
}

// ParseScheme resolves a scheme name, case-insensitively
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nrz", "nrz-l":
		return NRZ, nil
	case "nrzi", "nrz-i":
		return NRZI, nil
	case "manchester", "man":
		return Manchester, nil
	case "4b5b", "4b/5b", "4b-5b":
		return FourBFiveB, nil
	}
	return 0, fmt.Errorf("%w: unknown scheme %q", ErrInvalidInput, name)
}

// MarshalText implements encoding.TextMarshaler
func (s Scheme) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("%w: unknown scheme %d", ErrInvalidInput, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Scheme) UnmarshalText(text []byte) error {
	v, err := ParseScheme(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Alphabet returns the symbol set the scheme emits
func (s Scheme) Alphabet() Alphabet {
	if s == NRZ || s == NRZI {
		return Levels
	}
	return Binary
}

// BlockSize is the multiple an input bitstream length must satisfy
func (s Scheme) BlockSize() int {
	if s == FourBFiveB {
		return 4
	}
	return 1
}

// EncodedLen returns the signal length for n input bits
func (s Scheme) EncodedLen(n int) int {
	switch s {
	case Manchester:
		return 2 * n
	case FourBFiveB:
		return n / 4 * 5
	default:
		return n
	}
}

// Flip corrupts one symbol according to the scheme's alphabet
func (s Scheme) Flip(sym Symbol) Symbol {
	if s.Alphabet() == Levels {
		return sym.FlipLevel()
	}
	return sym.FlipBinary()
}

// Encode maps a bitstream to the scheme's line symbols
func (s Scheme) Encode(bits Bitstream) (Signal, error) {
	for i, b := range bits {
		if b > 1 {
			return nil, encodeErr(s, ErrInvalidSymbol, i, fmt.Sprintf("bit value %d", b))
		}
	}
	switch s {
	case NRZ:
		return encodeNRZ(bits), nil
	case NRZI:
		return encodeNRZI(bits), nil
	case Manchester:
		return encodeManchester(bits), nil
	case FourBFiveB:
		return encode4B5B(bits)
	}
	return nil, fmt.Errorf("%w: unknown scheme %d", ErrInvalidInput, int(s))
}

// Decode maps line symbols back to a bitstream. It never returns
// partial output: on error the bitstream is nil.
func (s Scheme) Decode(sig Signal) (Bitstream, error) {
	switch s {
	case NRZ:
		return decodeNRZ(sig)
	case NRZI:
		return decodeNRZI(sig)
	case Manchester:
		return decodeManchester(sig)
	case FourBFiveB:
		return decode4B5B(sig)
	}
	return nil, fmt.Errorf("%w: unknown scheme %d", ErrInvalidInput, int(s))
}

// EncodedLength encodes bits and reports the resulting signal length
func EncodedLength(s Scheme, bits Bitstream) (int, error) {
	sig, err := s.Encode(bits)
	if err != nil {
		return 0, err
	}
	return len(sig), nil
}
