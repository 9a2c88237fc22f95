// Package analysis runs Monte-Carlo error-resilience simulations of the
// line codes over a noisy channel.
package analysis

import (
	"fmt"

	"github.com/dbehnke/linecode/pkg/channel"
	"github.com/dbehnke/linecode/pkg/linecode"
	"github.com/dbehnke/linecode/pkg/logger"
)

// Trial is the outcome of one noisy transmission
type Trial struct {
	Errors       int
	Flipped      int
	DecodeFailed bool
}

// Summary aggregates the error counts of N trials for one scheme
type Summary struct {
	Scheme   linecode.Scheme `json:"scheme"`
	BER      float64         `json:"ber"`
	Trials   int             `json:"trials"`
	Length   int             `json:"length"`
	Mean     float64         `json:"mean"`
	Min      int             `json:"min"`
	Max      int             `json:"max"`
	StdDev   float64         `json:"std_dev"`
	Failures int             `json:"failures"`
}

// TrialObserver is notified after every trial
type TrialObserver interface {
	TrialCompleted(scheme linecode.Scheme, t Trial)
}

// SummaryObserver is notified once a scheme's summary is final
type SummaryObserver interface {
	SummaryCompleted(s Summary)
}

// Harness drives repeated noisy trials. It runs sequentially and owns a
// single Channel, so a Harness must not be shared between goroutines.
type Harness struct {
	ch        *channel.Channel
	model     channel.Model
	burstLen  int
	observers []any
	log       *logger.Logger
}

// Option configures a Harness
type Option func(*Harness)

// WithNoise selects the noise model. burstLen is used by channel.Burst.
func WithNoise(model channel.Model, burstLen int) Option {
	return func(h *Harness) {
		h.model = model
		h.burstLen = burstLen
	}
}

// WithObserver registers a TrialObserver and/or SummaryObserver
func WithObserver(o any) Option {
	return func(h *Harness) {
		h.observers = append(h.observers, o)
	}
}

// WithLogger sets the logger used for per-scheme progress
func WithLogger(l *logger.Logger) Option {
	return func(h *Harness) {
		h.log = l
	}
}

// NewHarness creates a harness injecting noise through ch
func NewHarness(ch *channel.Channel, opts ...Option) *Harness {
	h := &Harness{ch: ch, model: channel.PerSymbol}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logger.New(logger.Config{Level: "error"})
	}
	return h
}

// Trial encodes ref, corrupts a private copy of the signal and decodes it.
// A decode failure counts as losing every bit of ref.
func (h *Harness) Trial(scheme linecode.Scheme, ref linecode.Bitstream, ber float64) (Trial, error) {
	sig, err := scheme.Encode(ref)
	if err != nil {
		return Trial{}, fmt.Errorf("encode reference: %w", err)
	}
	noisy := sig.Clone()
	flipped := h.ch.Inject(noisy, channel.NoiseModel{BER: ber, Model: h.model, BurstLen: h.burstLen}, scheme)

	decoded, err := scheme.Decode(noisy)
	if err != nil {
		return Trial{Errors: len(ref), Flipped: flipped, DecodeFailed: true}, nil
	}
	return Trial{Errors: CountErrors(ref, decoded), Flipped: flipped}, nil
}

// Run performs n trials of scheme over ref at the given BER
func (h *Harness) Run(scheme linecode.Scheme, ref linecode.Bitstream, ber float64, n int) (Summary, error) {
	if len(ref) == 0 {
		return Summary{}, fmt.Errorf("%w: empty reference bitstream", linecode.ErrInvalidInput)
	}
	if n <= 0 {
		return Summary{}, fmt.Errorf("%w: trial count must be positive, got %d", linecode.ErrInvalidInput, n)
	}

	var acc accumulator
	failures := 0
	for i := 0; i < n; i++ {
		t, err := h.Trial(scheme, ref, ber)
		if err != nil {
			return Summary{}, fmt.Errorf("%s trial %d: %w", scheme, i, err)
		}
		if t.DecodeFailed {
			failures++
		}
		acc.add(t.Errors)
		for _, o := range h.observers {
			if to, ok := o.(TrialObserver); ok {
				to.TrialCompleted(scheme, t)
			}
		}
	}

	mean, std := acc.finalize()
	s := Summary{
		Scheme:   scheme,
		BER:      ber,
		Trials:   n,
		Length:   len(ref),
		Mean:     mean,
		Min:      acc.min,
		Max:      acc.max,
		StdDev:   std,
		Failures: failures,
	}

	h.log.Debug("Simulation complete",
		logger.Stringer("scheme", scheme),
		logger.Float64("ber", ber),
		logger.Int("trials", n),
		logger.Float64("mean", mean),
		logger.Int("failures", failures))

	for _, o := range h.observers {
		if so, ok := o.(SummaryObserver); ok {
			so.SummaryCompleted(s)
		}
	}
	return s, nil
}

// RunAll runs every scheme over ref, trimming ref to each scheme's block
// size. Summaries are returned in linecode.Schemes order.
func (h *Harness) RunAll(ref linecode.Bitstream, ber float64, n int) ([]Summary, error) {
	schemes := linecode.Schemes()
	out := make([]Summary, 0, len(schemes))
	for _, scheme := range schemes {
		s, err := h.Run(scheme, TrimToBlock(ref, scheme), ber, n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
