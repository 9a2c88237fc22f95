package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/dbehnke/linecode/pkg/linecode"
)

// DefaultSweepBERs are the channel qualities characterised by default
var DefaultSweepBERs = []float64{0.001, 0.01, 0.1}

// SweepRow holds every scheme's summary at one BER
type SweepRow struct {
	BER       float64   `json:"ber"`
	Summaries []Summary `json:"summaries"`
}

// Mean returns the mean error count of scheme in this row
func (r SweepRow) Mean(scheme linecode.Scheme) (float64, bool) {
	for _, s := range r.Summaries {
		if s.Scheme == scheme {
			return s.Mean, true
		}
	}
	return 0, false
}

// SweepResult is the degradation curve of every scheme
type SweepResult struct {
	Rows []SweepRow `json:"rows"`
	// Slopes maps scheme name to the log-log slope of mean errors over BER.
	// NaN when fewer than two usable points exist.
	Slopes map[string]float64 `json:"-"`
}

// Slope returns the fitted degradation slope for scheme
func (r SweepResult) Slope(scheme linecode.Scheme) float64 {
	if v, ok := r.Slopes[scheme.String()]; ok {
		return v
	}
	return math.NaN()
}

// SweepObserver is notified as each BER row completes
type SweepObserver interface {
	SweepRowCompleted(row SweepRow)
}

// Sweep repeats the harness over bers, in ascending order
func (h *Harness) Sweep(ref linecode.Bitstream, bers []float64, n int) (SweepResult, error) {
	if len(bers) == 0 {
		bers = DefaultSweepBERs
	}
	levels := append([]float64(nil), bers...)
	sort.Float64s(levels)

	res := SweepResult{Rows: make([]SweepRow, 0, len(levels))}
	for _, ber := range levels {
		if ber < 0 || ber > 1 {
			return SweepResult{}, fmt.Errorf("%w: sweep BER %v outside [0,1]", linecode.ErrInvalidInput, ber)
		}
		sums, err := h.RunAll(ref, ber, n)
		if err != nil {
			return SweepResult{}, fmt.Errorf("sweep at BER %v: %w", ber, err)
		}
		row := SweepRow{BER: ber, Summaries: sums}
		res.Rows = append(res.Rows, row)
		for _, o := range h.observers {
			if so, ok := o.(SweepObserver); ok {
				so.SweepRowCompleted(row)
			}
		}
	}
	res.Slopes = fitSlopes(res.Rows)
	return res, nil
}

// fitSlopes regresses log10(mean errors) on log10(BER) per scheme.
// A slope near 1 means errors scale linearly with channel BER.
func fitSlopes(rows []SweepRow) map[string]float64 {
	slopes := make(map[string]float64)
	for _, scheme := range linecode.Schemes() {
		var xs, ys []float64
		for _, row := range rows {
			mean, ok := row.Mean(scheme)
			if !ok || mean <= 0 || row.BER <= 0 {
				continue
			}
			xs = append(xs, math.Log10(row.BER))
			ys = append(ys, math.Log10(mean))
		}
		if len(xs) < 2 {
			slopes[scheme.String()] = math.NaN()
			continue
		}
		_, beta := stat.LinearRegression(xs, ys, nil, false)
		slopes[scheme.String()] = beta
	}
	return slopes
}
