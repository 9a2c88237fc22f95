package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dbehnke/linecode/pkg/linecode"
)

type level int

const (
	levelUnknown level = iota
	levelLow
	levelHigh
)

// levelOf maps a line symbol to a drawable level
func levelOf(sym linecode.Symbol) level {
	switch sym {
	case 'H', 'h', '1', '+':
		return levelHigh
	case 'L', 'l', '0', '-':
		return levelLow
	default:
		return levelUnknown
	}
}

func (l level) glyph() string {
	switch l {
	case levelHigh:
		return "----"
	case levelLow:
		return "____"
	default:
		return "????"
	}
}

// PlotMeta labels a diagram
type PlotMeta struct {
	OperatorID string
	BER        float64
}

// isManchester reports whether every symbol pair is 01 or 10
func isManchester(sig linecode.Signal) bool {
	if len(sig) == 0 || len(sig)%2 != 0 {
		return false
	}
	for i := 0; i < len(sig); i += 2 {
		a, b := sig[i], sig[i+1]
		if !((a == '0' && b == '1') || (a == '1' && b == '0')) {
			return false
		}
	}
	return true
}

// PlotSignal renders a level-transition diagram of sig. Each symbol is a
// four character cell, '|' marks a level change and Manchester-shaped
// signals get a mid-bit marker after the first half of each pair.
func PlotSignal(w io.Writer, title string, sig linecode.Signal, meta PlotMeta) error {
	if len(sig) == 0 {
		return nil
	}
	manchester := isManchester(sig)

	var b strings.Builder
	b.WriteString("\n========================================\n")
	if title != "" {
		fmt.Fprintf(&b, "%s\n", title)
	}
	if meta.OperatorID != "" {
		fmt.Fprintf(&b, "Operator: %s | BER: %.3f\n", meta.OperatorID, meta.BER)
	} else {
		fmt.Fprintf(&b, "BER: %.3f\n", meta.BER)
	}
	fmt.Fprintf(&b, "Input: %s\n\n", sig)

	var axis, line strings.Builder
	axis.WriteString("Time:   ")
	line.WriteString("Signal: ")
	prev := levelOf(sig[0])
	for i, sym := range sig {
		lvl := levelOf(sym)
		if i > 0 && lvl != prev {
			line.WriteByte('|')
		} else {
			line.WriteByte(' ')
		}
		line.WriteString(lvl.glyph())
		fmt.Fprintf(&axis, " %-4d", i)

		if manchester && i%2 == 0 {
			line.WriteByte('|')
			axis.WriteByte(' ')
		}
		prev = lvl
	}
	b.WriteString(strings.TrimRight(axis.String(), " "))
	b.WriteByte('\n')
	b.WriteString(line.String())
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}
