package analysis

import (
	"errors"
	"fmt"

	"github.com/dbehnke/linecode/pkg/linecode"
)

// ErrRoundTrip indicates decode(encode(b)) != b on a noiseless channel
var ErrRoundTrip = errors.New("round trip mismatch")

// RoundTrip encodes and decodes bits without noise and checks the result.
// It returns the encoded signal so callers can render it.
func RoundTrip(scheme linecode.Scheme, bits linecode.Bitstream) (linecode.Signal, error) {
	sig, err := scheme.Encode(bits)
	if err != nil {
		return nil, err
	}
	back, err := scheme.Decode(sig)
	if err != nil {
		return sig, err
	}
	if !bits.Equal(back) {
		return sig, fmt.Errorf("%w: %s expected %s, got %s", ErrRoundTrip, scheme, bits, back)
	}
	return sig, nil
}

// SelfCheckInputs are the fixed literals exercised before a simulation run
func SelfCheckInputs() map[linecode.Scheme]linecode.Bitstream {
	return map[linecode.Scheme]linecode.Bitstream{
		linecode.NRZ:        linecode.MustParseBits("110010"),
		linecode.NRZI:       linecode.MustParseBits("110010"),
		linecode.Manchester: linecode.MustParseBits("110010"),
		linecode.FourBFiveB: linecode.MustParseBits("101011110000"),
	}
}
