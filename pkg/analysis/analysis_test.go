package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbehnke/linecode/internal/testhelpers"
	"github.com/dbehnke/linecode/pkg/analysis"
	"github.com/dbehnke/linecode/pkg/linecode"
)

func TestCountErrors(t *testing.T) {
	x := linecode.MustParseBits("1100101")
	assert.Equal(t, 0, analysis.CountErrors(x, x))
	assert.Equal(t, 2, analysis.CountErrors(x, linecode.MustParseBits("1000111")))
	assert.Equal(t, 1, analysis.CountErrors(x, linecode.MustParseBits("10")), "compares up to the shorter length")
	assert.Equal(t, 0, analysis.CountErrors(nil, x))
}

func TestGenerator(t *testing.T) {
	g := analysis.NewGenerator(testhelpers.Rand(5))
	bits := g.Bits(10000)
	require.Len(t, bits, 10000)
	ones := 0
	for _, b := range bits {
		require.True(t, b <= 1, "bit out of range: %d", b)
		ones += int(b)
	}
	assert.InDelta(t, 5000, ones, 300)
	assert.Empty(t, g.Bits(0))
	assert.Empty(t, g.Bits(-3))
}

func TestTrimToBlock(t *testing.T) {
	bits := linecode.MustParseBits("1010111")
	assert.Equal(t, "1010", analysis.TrimToBlock(bits, linecode.FourBFiveB).String())
	assert.Equal(t, "1010111", analysis.TrimToBlock(bits, linecode.NRZ).String())
}

func TestRoundTrip_SelfCheckInputs(t *testing.T) {
	inputs := analysis.SelfCheckInputs()
	require.Len(t, inputs, 4)
	for scheme, bits := range inputs {
		sig, err := analysis.RoundTrip(scheme, bits)
		require.NoError(t, err, scheme.String())
		assert.Len(t, sig, scheme.EncodedLen(len(bits)))
	}
}

func TestRoundTrip_EncodeError(t *testing.T) {
	_, err := analysis.RoundTrip(linecode.FourBFiveB, linecode.MustParseBits("110010"))
	require.ErrorIs(t, err, linecode.ErrInvalidLength)
}
