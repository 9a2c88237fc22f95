package analysis

import (
	"math/rand/v2"

	"github.com/dbehnke/linecode/pkg/linecode"
)

// Generator produces random reference bitstreams
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator drawing from rng
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Bits returns n uniformly random bits
func (g *Generator) Bits(n int) linecode.Bitstream {
	if n <= 0 {
		return linecode.Bitstream{}
	}
	bits := make(linecode.Bitstream, n)
	for i := range bits {
		bits[i] = linecode.Bit(g.rng.IntN(2))
	}
	return bits
}

// TrimToBlock drops trailing bits so the length is a multiple of the
// scheme's block size. The result shares storage with bits.
func TrimToBlock(bits linecode.Bitstream, scheme linecode.Scheme) linecode.Bitstream {
	bs := scheme.BlockSize()
	return bits[:len(bits)/bs*bs]
}
