package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Report     ReportConfig     `mapstructure:"report"`
	Web        WebConfig        `mapstructure:"web"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// SimulationConfig holds the Monte-Carlo parameters
type SimulationConfig struct {
	MessageLength int       `mapstructure:"message_length"` // Random reference length in bits
	Message       string    `mapstructure:"message"`        // Literal reference bitstream, overrides message_length
	Trials        int       `mapstructure:"trials"`         // Trials per scheme
	BER           float64   `mapstructure:"ber"`            // Channel bit error rate
	Seed          uint64    `mapstructure:"seed"`           // 0 = time based
	SweepBERs     []float64 `mapstructure:"sweep_bers"`     // BER levels for the sensitivity sweep
	NoiseModel    string    `mapstructure:"noise_model"`    // symbol, block or burst
	BurstLength   int       `mapstructure:"burst_length"`   // Symbols per burst for the burst model
}

// ReportConfig holds report sink settings
type ReportConfig struct {
	AnalysisPath string `mapstructure:"analysis_path"` // Markdown analysis report
	SignalsPath  string `mapstructure:"signals_path"`  // Signal diagram text file
	OperatorID   string `mapstructure:"operator_id"`   // Printed in report headers
	PlotNoise    bool   `mapstructure:"plot_noise"`    // Corrupt self-check signals before plotting
}

// WebConfig holds web dashboard configuration
type WebConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	MaxTrials      int    `mapstructure:"max_trials"`       // Upper bound for API simulation requests
	MaxLength      int    `mapstructure:"max_length"`       // Upper bound for API message length
	MaxSweepLevels int    `mapstructure:"max_sweep_levels"` // Upper bound for BER levels per API sweep
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled    bool             `mapstructure:"enabled"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig holds Prometheus metrics configuration
type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// Load loads configuration from file and environment variables
func Load(configFile string) (*Config, error) {
	// Set defaults
	setDefaults()

	// Set config file
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("linecode")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("/etc/linecode")
	}

	// Environment variables, e.g. LINECODE_SIMULATION_BER
	viper.SetEnvPrefix("LINECODE")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found is OK, use defaults
		} else if os.IsNotExist(err) {
			// File explicitly specified but doesn't exist - that's also OK
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal to struct
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Default returns the default configuration without reading files or env
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			MessageLength: 1000,
			Trials:        50,
			BER:           0.01,
			SweepBERs:     []float64{0.001, 0.01, 0.1},
			NoiseModel:    "symbol",
			BurstLength:   3,
		},
		Report: ReportConfig{
			AnalysisPath: "results/analysis.md",
			SignalsPath:  "results/signals.txt",
			PlotNoise:    true,
		},
		Web: WebConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			MaxTrials:      1000,
			MaxLength:      100000,
			MaxSweepLevels: 16,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Prometheus: PrometheusConfig{
				Enabled: true,
				Port:    9090,
				Path:    "/metrics",
			},
		},
	}
}

// setDefaults sets default configuration values
func setDefaults() {
	d := Default()

	// Simulation defaults
	viper.SetDefault("simulation.message_length", d.Simulation.MessageLength)
	viper.SetDefault("simulation.message", "")
	viper.SetDefault("simulation.trials", d.Simulation.Trials)
	viper.SetDefault("simulation.ber", d.Simulation.BER)
	viper.SetDefault("simulation.seed", 0)
	viper.SetDefault("simulation.sweep_bers", d.Simulation.SweepBERs)
	viper.SetDefault("simulation.noise_model", d.Simulation.NoiseModel)
	viper.SetDefault("simulation.burst_length", d.Simulation.BurstLength)

	// Report defaults
	viper.SetDefault("report.analysis_path", d.Report.AnalysisPath)
	viper.SetDefault("report.signals_path", d.Report.SignalsPath)
	viper.SetDefault("report.operator_id", "")
	viper.SetDefault("report.plot_noise", d.Report.PlotNoise)

	// Web defaults
	viper.SetDefault("web.enabled", false)
	viper.SetDefault("web.host", d.Web.Host)
	viper.SetDefault("web.port", d.Web.Port)
	viper.SetDefault("web.max_trials", d.Web.MaxTrials)
	viper.SetDefault("web.max_length", d.Web.MaxLength)
	viper.SetDefault("web.max_sweep_levels", d.Web.MaxSweepLevels)

	// Logging defaults
	viper.SetDefault("logging.level", d.Logging.Level)
	viper.SetDefault("logging.format", d.Logging.Format)
	viper.SetDefault("logging.file", "")

	// Metrics defaults
	viper.SetDefault("metrics.enabled", d.Metrics.Enabled)
	viper.SetDefault("metrics.prometheus.enabled", d.Metrics.Prometheus.Enabled)
	viper.SetDefault("metrics.prometheus.port", d.Metrics.Prometheus.Port)
	viper.SetDefault("metrics.prometheus.path", d.Metrics.Prometheus.Path)
}
