package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/dbehnke/linecode/pkg/analysis"
	"github.com/dbehnke/linecode/pkg/channel"
	"github.com/dbehnke/linecode/pkg/config"
	"github.com/dbehnke/linecode/pkg/linecode"
	"github.com/dbehnke/linecode/pkg/logger"
	"github.com/dbehnke/linecode/pkg/report"
)

// errSelfCheck is returned when a noiseless round trip fails
var errSelfCheck = errors.New("self-check failed")

type runner struct {
	cfg       *config.Config
	log       *logger.Logger
	console   io.Writer
	observers []any
}

// run executes the full pipeline: self-check, diagrams, simulation,
// sweep and report
func (r *runner) run() error {
	sim := r.cfg.Simulation
	ch := channel.NewSeeded(sim.Seed)

	if !r.selfCheck() {
		return errSelfCheck
	}
	if err := r.writeSignals(ch); err != nil {
		return err
	}

	ref, err := r.reference(ch)
	if err != nil {
		return err
	}

	model, err := channel.ParseModel(sim.NoiseModel)
	if err != nil {
		return err
	}
	opts := []analysis.Option{
		analysis.WithNoise(model, sim.BurstLength),
		analysis.WithLogger(r.log.WithComponent("harness")),
	}
	for _, o := range r.observers {
		opts = append(opts, analysis.WithObserver(o))
	}
	h := analysis.NewHarness(ch, opts...)

	r.log.Info("Running simulation",
		logger.Int("length", len(ref)),
		logger.Int("trials", sim.Trials),
		logger.Float64("ber", sim.BER),
		logger.Stringer("noise_model", model),
		logger.Uint64("seed", sim.Seed))

	sums, err := h.RunAll(ref, sim.BER, sim.Trials)
	if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	for _, s := range sums {
		r.log.Info("Scheme result",
			logger.Stringer("scheme", s.Scheme),
			logger.Float64("mean", s.Mean),
			logger.Int("min", s.Min),
			logger.Int("max", s.Max),
			logger.Float64("std_dev", s.StdDev),
			logger.Int("failures", s.Failures))
	}

	sweep, err := h.Sweep(ref, sim.SweepBERs, sim.Trials)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	meta := report.Meta{
		OperatorID:    r.cfg.Report.OperatorID,
		BER:           sim.BER,
		Trials:        sim.Trials,
		MessageLength: len(ref),
		NoiseModel:    model.String(),
		Seed:          sim.Seed,
		Generated:     time.Now(),
	}
	if err := r.writeReport(meta, sums, sweep); err != nil {
		return err
	}

	r.log.Info("Report written", logger.String("path", r.cfg.Report.AnalysisPath))
	return nil
}

// selfCheck round-trips the fixed literals through every scheme and
// stops at the first mismatch
func (r *runner) selfCheck() bool {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed, color.Bold)
	inputs := analysis.SelfCheckInputs()

	for _, s := range linecode.Schemes() {
		bits := inputs[s]
		sig, err := analysis.RoundTrip(s, bits)
		if err != nil {
			bad.Fprintf(r.console, "❌ %-10s %s: %v\n", s, bits, err)
			return false
		}
		ok.Fprintf(r.console, "✅ %-10s %s -> %s\n", s, bits, sig)
	}
	return true
}

// writeSignals renders each self-check signal, and a noisy copy when
// plot_noise is set, to the signals file
func (r *runner) writeSignals(ch *channel.Channel) error {
	path := r.cfg.Report.SignalsPath
	if path == "" {
		return nil
	}
	f, err := report.OpenFile(path, false)
	if err != nil {
		return err
	}
	defer f.Close()

	meta := report.PlotMeta{OperatorID: r.cfg.Report.OperatorID, BER: r.cfg.Simulation.BER}
	inputs := analysis.SelfCheckInputs()
	for _, s := range linecode.Schemes() {
		sig, err := s.Encode(inputs[s])
		if err != nil {
			return err
		}
		if err := report.PlotSignal(f, s.String(), sig, meta); err != nil {
			return fmt.Errorf("write signal diagram: %w", err)
		}
		if !r.cfg.Report.PlotNoise {
			continue
		}
		noisy := sig.Clone()
		flipped := ch.Apply(noisy, r.cfg.Simulation.BER, s)
		title := fmt.Sprintf("%s with noise (%d flipped)", s, flipped)
		if err := report.PlotSignal(f, title, noisy, meta); err != nil {
			return fmt.Errorf("write signal diagram: %w", err)
		}
	}
	return nil
}

// reference returns the configured literal message or a random one
func (r *runner) reference(ch *channel.Channel) (linecode.Bitstream, error) {
	if msg := r.cfg.Simulation.Message; msg != "" {
		return linecode.ParseBits(msg)
	}
	return analysis.NewGenerator(ch.Rand()).Bits(r.cfg.Simulation.MessageLength), nil
}

func (r *runner) writeReport(meta report.Meta, sums []analysis.Summary, sweep analysis.SweepResult) error {
	f, err := report.OpenFile(r.cfg.Report.AnalysisPath, false)
	if err != nil {
		return err
	}

	w := report.NewWriter(f)
	_ = w.Header(meta)
	_ = w.Summaries(sums)
	_ = w.Sweep(sweep)
	if err := w.Err(); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}
