package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbehnke/linecode/internal/testhelpers"
	"github.com/dbehnke/linecode/pkg/linecode"
	"github.com/dbehnke/linecode/pkg/metrics"
)

func TestRunWritesReports(t *testing.T) {
	s := testhelpers.NewIntegrationSuite(t)
	defer s.Cleanup()

	collector := metrics.NewCollector()
	var console bytes.Buffer
	r := &runner{cfg: s.Config, log: s.Logger, console: &console, observers: []any{collector}}
	require.NoError(t, r.run())

	out := console.String()
	for _, scheme := range linecode.Schemes() {
		assert.Contains(t, out, "✅ "+scheme.String())
	}
	assert.NotContains(t, out, "❌")

	analysisMD, err := os.ReadFile(s.Config.Report.AnalysisPath)
	require.NoError(t, err)
	md := string(analysisMD)
	assert.Contains(t, md, "| Scheme | Mean | Min | Max | Std Dev | Failures |")
	assert.Contains(t, md, "| BER | NRZ | NRZI | Manchester | 4B/5B |")
	assert.Contains(t, md, "- Message length: 400 bits")
	assert.Contains(t, md, "| slope |")

	signals, err := os.ReadFile(s.Config.Report.SignalsPath)
	require.NoError(t, err)
	assert.Contains(t, string(signals), "Input: HHLLHL")
	assert.Contains(t, string(signals), "with noise")

	// one simulation at the configured BER plus one per sweep level
	levels := uint64(1 + len(s.Config.Simulation.SweepBERs))
	assert.Equal(t, 4*levels, collector.GetSimulations())
	assert.Equal(t, levels-1, collector.GetSweepRows())
}

func TestRunLiteralMessage(t *testing.T) {
	s := testhelpers.NewIntegrationSuite(t)
	defer s.Cleanup()

	s.Config.Simulation.Message = "101011110000"
	s.Config.Simulation.BER = 0
	s.Config.Report.PlotNoise = false

	r := &runner{cfg: s.Config, log: s.Logger, console: &bytes.Buffer{}}
	require.NoError(t, r.run())

	data, err := os.ReadFile(s.Config.Report.AnalysisPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "| NRZ | 0.00 | 0 | 0 | 0.00 | 0 |")
	assert.Contains(t, string(data), "- Message length: 12 bits")

	signals, err := os.ReadFile(s.Config.Report.SignalsPath)
	require.NoError(t, err)
	assert.NotContains(t, string(signals), "with noise")
}

func TestRunNoisyDiagramsFlipLevelCodes(t *testing.T) {
	s := testhelpers.NewIntegrationSuite(t)
	defer s.Cleanup()

	s.Config.Simulation.BER = 1
	s.Config.Report.PlotNoise = true

	r := &runner{cfg: s.Config, log: s.Logger, console: &bytes.Buffer{}}
	require.NoError(t, r.run())

	data, err := os.ReadFile(s.Config.Report.SignalsPath)
	require.NoError(t, err)
	signals := string(data)

	// every H/L symbol is inverted at BER 1
	assert.Contains(t, signals, "NRZ with noise (6 flipped)\n")
	assert.Contains(t, signals, "Input: LLHHLH\n")
	assert.Contains(t, signals, "NRZI with noise (6 flipped)\n")
	assert.Contains(t, signals, "Input: HLLLHH\n")
	assert.Contains(t, signals, "Manchester with noise (12 flipped)\n")
}

func TestRunReproducible(t *testing.T) {
	read := func() string {
		s := testhelpers.NewIntegrationSuite(t)
		defer s.Cleanup()
		r := &runner{cfg: s.Config, log: s.Logger, console: &bytes.Buffer{}}
		require.NoError(t, r.run())
		data, err := os.ReadFile(s.Config.Report.AnalysisPath)
		require.NoError(t, err)
		// drop the generation timestamp
		var keep []string
		for _, line := range strings.Split(string(data), "\n") {
			if !strings.HasPrefix(line, "- Generated:") {
				keep = append(keep, line)
			}
		}
		return strings.Join(keep, "\n")
	}
	assert.Equal(t, read(), read())
}

func TestRunInvalidNoiseModel(t *testing.T) {
	s := testhelpers.NewIntegrationSuite(t)
	defer s.Cleanup()

	s.Config.Simulation.NoiseModel = "gaussian"
	r := &runner{cfg: s.Config, log: s.Logger, console: &bytes.Buffer{}}
	require.Error(t, r.run())
}
