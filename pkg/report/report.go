// Package report writes simulation results and signal diagrams to text sinks.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dbehnke/linecode/pkg/analysis"
	"github.com/dbehnke/linecode/pkg/linecode"
)

// Meta describes a simulation run in the report header
type Meta struct {
	Title         string
	OperatorID    string
	BER           float64
	Trials        int
	MessageLength int
	NoiseModel    string
	Seed          uint64
	Generated     time.Time
}

// Writer renders markdown report sections. The first write error is
// kept and returned by every later call.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter creates a report writer on w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// OpenFile opens path for writing, creating parent directories. With
// appendMode false an existing file is truncated.
func OpenFile(path string, appendMode bool) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open report file: %w", err)
	}
	return f, nil
}

func (w *Writer) printf(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

// Err returns the first write error
func (w *Writer) Err() error {
	return w.err
}

// Header writes the report title and run parameters
func (w *Writer) Header(m Meta) error {
	title := m.Title
	if title == "" {
		title = "Line Coding Error Analysis"
	}
	generated := m.Generated
	if generated.IsZero() {
		generated = time.Now()
	}

	w.printf("# %s\n\n", title)
	if m.OperatorID != "" {
		w.printf("- Operator: %s\n", m.OperatorID)
	}
	w.printf("- BER: %g\n", m.BER)
	w.printf("- Trials per scheme: %d\n", m.Trials)
	w.printf("- Message length: %d bits\n", m.MessageLength)
	if m.NoiseModel != "" {
		w.printf("- Noise model: %s\n", m.NoiseModel)
	}
	if m.Seed != 0 {
		w.printf("- Seed: %d\n", m.Seed)
	}
	w.printf("- Generated: %s\n\n", generated.Format(time.RFC3339))
	return w.err
}

// Summaries writes one table row per scheme
func (w *Writer) Summaries(sums []analysis.Summary) error {
	w.printf("## Error statistics\n\n")
	w.printf("| Scheme | Mean | Min | Max | Std Dev | Failures |\n")
	w.printf("|---|---|---|---|---|---|\n")
	for _, s := range sums {
		w.printf("| %s | %.2f | %d | %d | %.2f | %d |\n",
			s.Scheme, s.Mean, s.Min, s.Max, s.StdDev, s.Failures)
	}
	w.printf("\n")
	return w.err
}

// Sweep writes one row per BER level with each scheme's mean error count,
// followed by the fitted log-log degradation slope
func (w *Writer) Sweep(res analysis.SweepResult) error {
	schemes := linecode.Schemes()
	names := make([]string, len(schemes))
	for i, s := range schemes {
		names[i] = s.String()
	}

	w.printf("## BER sensitivity\n\n")
	w.printf("| BER | %s |\n", strings.Join(names, " | "))
	w.printf("|---%s|\n", strings.Repeat("|---", len(schemes)))
	for _, row := range res.Rows {
		cells := make([]string, len(schemes))
		for i, s := range schemes {
			if mean, ok := row.Mean(s); ok {
				cells[i] = fmt.Sprintf("%.2f", mean)
			} else {
				cells[i] = "-"
			}
		}
		w.printf("| %g | %s |\n", row.BER, strings.Join(cells, " | "))
	}

	slopes := make([]string, len(schemes))
	for i, s := range schemes {
		slopes[i] = formatSlope(res.Slope(s))
	}
	w.printf("| slope | %s |\n\n", strings.Join(slopes, " | "))
	return w.err
}

func formatSlope(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
