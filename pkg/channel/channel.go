// Package channel injects bit errors into encoded line signals.
package channel

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/dbehnke/linecode/pkg/linecode"
)

// Model selects how corruption is distributed over a signal
type Model int

const (
	// PerSymbol flips each symbol independently with probability BER
	PerSymbol Model = iota
	// Block corrupts whole 5-symbol 4B/5B blocks, one flipped symbol each
	Block
	// Burst starts non-overlapping runs of flipped symbols with probability BER
	Burst
)

func (m Model) String() string {
	switch m {
	case PerSymbol:
		return "symbol"
	case Block:
		return "block"
	case Burst:
		return "burst"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// ParseModel resolves a model name as used in configuration
func ParseModel(name string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "symbol", "per-symbol", "uniform":
		return PerSymbol, nil
	case "block":
		return Block, nil
	case "burst":
		return Burst, nil
	}
	return 0, fmt.Errorf("unknown noise model %q", name)
}

// BlockLen is the 4B/5B codeword length used by the block model
const BlockLen = 5

// NoiseModel is a BER plus the policy used to apply it
type NoiseModel struct {
	BER      float64
	Model    Model
	BurstLen int
}

// Channel applies stochastic corruption using an injected random source.
// It is not safe for concurrent use; give each goroutine its own Channel.
type Channel struct {
	rng *rand.Rand
}

// New creates a channel drawing from rng
func New(rng *rand.Rand) *Channel {
	return &Channel{rng: rng}
}

// NewSeeded creates a channel with a deterministic PCG source
func NewSeeded(seed uint64) *Channel {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Rand exposes the underlying source so generators can share it
func (c *Channel) Rand() *rand.Rand {
	return c.rng
}

func clampBER(ber float64) (float64, bool) {
	if ber <= 0 {
		return 0, false
	}
	if ber > 1 {
		ber = 1
	}
	return ber, true
}

// Apply flips each symbol independently with probability ber using the
// scheme's flip policy (H<->L for level codes, 0<->1 otherwise).
// It returns the number of symbols flipped.
func (c *Channel) Apply(sig linecode.Signal, ber float64, scheme linecode.Scheme) int {
	ber, ok := clampBER(ber)
	if !ok {
		return 0
	}
	flipped := 0
	for i := range sig {
		if c.rng.Float64() < ber {
			sig[i] = scheme.Flip(sig[i])
			flipped++
		}
	}
	return flipped
}

// ApplyGeneric is the scheme-agnostic path: 0<->1 flips, other symbols
// are left as they are (a draw is still consumed).
func (c *Channel) ApplyGeneric(sig linecode.Signal, ber float64) int {
	ber, ok := clampBER(ber)
	if !ok {
		return 0
	}
	flipped := 0
	for i := range sig {
		if c.rng.Float64() < ber {
			next := sig[i].FlipBinary()
			if next != sig[i] {
				sig[i] = next
				flipped++
			}
		}
	}
	return flipped
}

// ApplyBlock draws once per 5-symbol block; a corrupted block gets exactly
// one randomly chosen symbol flipped 0<->1. A trailing short block only
// chooses among the positions it has.
func (c *Channel) ApplyBlock(sig linecode.Signal, ber float64) int {
	ber, ok := clampBER(ber)
	if !ok {
		return 0
	}
	flipped := 0
	for i := 0; i < len(sig); i += BlockLen {
		if c.rng.Float64() >= ber {
			continue
		}
		width := min(BlockLen, len(sig)-i)
		pos := i + c.rng.IntN(width)
		sig[pos] = sig[pos].FlipBinary()
		flipped++
	}
	return flipped
}

// ApplyBurst starts a run of burstLen flipped symbols at each position
// with probability pStart, then resumes after the run so bursts never
// overlap. Runs are truncated at the end of the signal.
func (c *Channel) ApplyBurst(sig linecode.Signal, pStart float64, burstLen int, scheme linecode.Scheme) int {
	pStart, ok := clampBER(pStart)
	if !ok || burstLen <= 0 {
		return 0
	}
	flipped := 0
	for i := 0; i < len(sig); i++ {
		if c.rng.Float64() >= pStart {
			continue
		}
		end := min(i+burstLen, len(sig))
		for j := i; j < end; j++ {
			sig[j] = scheme.Flip(sig[j])
			flipped++
		}
		i = end
	}
	return flipped
}

// Inject applies a noise model to sig in place. Block noise only applies
// to 4B/5B; other schemes fall back to per-symbol noise.
func (c *Channel) Inject(sig linecode.Signal, nm NoiseModel, scheme linecode.Scheme) int {
	switch nm.Model {
	case Block:
		if scheme == linecode.FourBFiveB {
			return c.ApplyBlock(sig, nm.BER)
		}
	case Burst:
		return c.ApplyBurst(sig, nm.BER, nm.BurstLen, scheme)
	}
	return c.Apply(sig, nm.BER, scheme)
}
