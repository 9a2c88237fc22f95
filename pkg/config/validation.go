package config

import (
	"fmt"
	"strings"

	"github.com/dbehnke/linecode/pkg/channel"
	"github.com/dbehnke/linecode/pkg/linecode"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// Validate checks a configuration built outside Load
func Validate(cfg *Config) error {
	return validate(cfg)
}

// validate validates the configuration
func validate(cfg *Config) error {
	sim := cfg.Simulation

	// Validate simulation config
	if sim.Trials <= 0 {
		return fmt.Errorf("simulation.trials must be positive")
	}
	if sim.BER < 0 || sim.BER > 1 {
		return fmt.Errorf("simulation.ber must be between 0 and 1")
	}
	// every scheme needs at least one whole 4B/5B block
	minBits := linecode.FourBFiveB.BlockSize()
	if sim.Message != "" {
		if err := linecode.Validate(sim.Message); err != nil {
			return fmt.Errorf("simulation.message: %w", err)
		}
		if len(sim.Message) < minBits {
			return fmt.Errorf("simulation.message must be at least %d bits", minBits)
		}
	} else if sim.MessageLength < minBits {
		return fmt.Errorf("simulation.message_length must be at least %d", minBits)
	}
	for i, ber := range sim.SweepBERs {
		if ber < 0 || ber > 1 {
			return fmt.Errorf("simulation.sweep_bers[%d] must be between 0 and 1", i)
		}
	}
	model, err := channel.ParseModel(sim.NoiseModel)
	if err != nil {
		return fmt.Errorf("simulation.noise_model: %w", err)
	}
	if model == channel.Burst && sim.BurstLength <= 0 {
		return fmt.Errorf("simulation.burst_length must be positive for the burst model")
	}

	// Validate report config
	if cfg.Report.AnalysisPath == "" {
		return fmt.Errorf("report.analysis_path is required")
	}

	// Validate web config
	if cfg.Web.Enabled {
		if cfg.Web.Port < 0 || cfg.Web.Port > 65535 {
			return fmt.Errorf("web.port must be between 0 and 65535")
		}
		if cfg.Web.MaxTrials <= 0 {
			return fmt.Errorf("web.max_trials must be positive")
		}
		if cfg.Web.MaxLength <= 0 {
			return fmt.Errorf("web.max_length must be positive")
		}
		if cfg.Web.MaxSweepLevels <= 0 {
			return fmt.Errorf("web.max_sweep_levels must be positive")
		}
	}

	// Validate metrics config
	if cfg.Metrics.Enabled && cfg.Metrics.Prometheus.Enabled {
		if cfg.Metrics.Prometheus.Port < 0 || cfg.Metrics.Prometheus.Port > 65535 {
			return fmt.Errorf("metrics.prometheus.port must be between 0 and 65535")
		}
		if !strings.HasPrefix(cfg.Metrics.Prometheus.Path, "/") {
			return fmt.Errorf("metrics.prometheus.path must start with /")
		}
	}

	// Validate logging config
	switch strings.ToLower(cfg.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json")
	}

	return nil
}
