package linecode

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates missing or empty data where data is required
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidSymbol indicates a character outside the scheme's alphabet
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrInvalidLength indicates a length that is not a multiple the scheme requires
	ErrInvalidLength = errors.New("invalid length")
	// ErrInvalidCodeword indicates a 5-bit group with no 4B/5B table entry
	ErrInvalidCodeword = errors.New("invalid codeword")
)

// CodecError describes where an encode or decode failed.
// It unwraps to one of the sentinel errors above.
type CodecError struct {
	Scheme Scheme
	Op     string // "encode" or "decode"
	Kind   error
	Pos    int // offset into the input, -1 when not positional
	Detail string
}

func (e *CodecError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Scheme, e.Op, e.Kind)
	if e.Pos >= 0 {
		msg += fmt.Sprintf(" at position %d", e.Pos)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *CodecError) Unwrap() error {
	return e.Kind
}

func encodeErr(s Scheme, kind error, pos int, detail string) error {
	return &CodecError{Scheme: s, Op: "encode", Kind: kind, Pos: pos, Detail: detail}
}

func decodeErr(s Scheme, kind error, pos int, detail string) error {
	return &CodecError{Scheme: s, Op: "decode", Kind: kind, Pos: pos, Detail: detail}
}
