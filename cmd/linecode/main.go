package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dbehnke/linecode/pkg/config"
	"github.com/dbehnke/linecode/pkg/logger"
	"github.com/dbehnke/linecode/pkg/metrics"
	"github.com/dbehnke/linecode/pkg/web"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

func main() {
	// Parse command line flags
	configFile := flag.String("config", "", "Path to configuration file (default: search for linecode.yaml)")
	showVersion := flag.Bool("version", false, "Show version information")
	validate := flag.Bool("validate", false, "Validate configuration and exit")
	serve := flag.Bool("serve", false, "Keep the dashboard and metrics servers running after the simulation")
	seed := flag.Uint64("seed", 0, "Random seed (overrides simulation.seed)")
	ber := flag.Float64("ber", 0, "Channel bit error rate (overrides simulation.ber)")
	trials := flag.Int("trials", 0, "Trials per scheme (overrides simulation.trials)")
	flag.Parse()

	// Show version
	if *showVersion {
		fmt.Printf("linecode %s (commit %s, built %s)\n", version, gitCommit, buildTime)
		os.Exit(0)
	}

	// Basic console logger until the configuration is known
	log := logger.New(logger.Config{
		Level:  "info",
		Format: "text",
	})

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Error("Failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	// Command line overrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Simulation.Seed = *seed
		case "ber":
			cfg.Simulation.BER = *ber
		case "trials":
			cfg.Simulation.Trials = *trials
		}
	})
	if *serve {
		cfg.Web.Enabled = true
	}
	if err := config.Validate(cfg); err != nil {
		log.Error("Invalid configuration", logger.Error(err))
		os.Exit(1)
	}

	// Validate only mode
	if *validate {
		log.Info("Configuration is valid")
		os.Exit(0)
	}

	// Reconfigure logging
	var logCloser io.Closer
	if cfg.Logging.File != "" {
		log, logCloser, err = logger.NewFile(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}, cfg.Logging.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer logCloser.Close()
	} else {
		log = logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	}

	log.Info("Starting linecode",
		logger.String("version", version),
		logger.String("build_time", buildTime))
	web.SetVersionInfo(version, gitCommit, buildTime)

	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = uint64(time.Now().UnixNano())
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	metricsCollector := metrics.NewCollector()
	observers := []any{metricsCollector}

	// Start Prometheus metrics server if enabled
	if *serve && cfg.Metrics.Enabled && cfg.Metrics.Prometheus.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metricsServer := metrics.NewPrometheusServer(
				metrics.PrometheusConfig{
					Enabled: cfg.Metrics.Prometheus.Enabled,
					Port:    cfg.Metrics.Prometheus.Port,
					Path:    cfg.Metrics.Prometheus.Path,
				},
				metricsCollector,
				log,
			)
			if err := metricsServer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("Prometheus metrics server error", logger.Error(err))
			}
		}()
	}

	// Start web server if enabled; its hub receives simulation events
	if *serve {
		srv := web.NewServer(cfg.Web, log, metricsCollector)
		observers = append(observers, srv.GetHub())
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Start(ctx); err != nil && err != context.Canceled {
				log.Error("Web server error", logger.Error(err))
			}
		}()
	}

	r := &runner{
		cfg:       cfg,
		log:       log,
		console:   os.Stdout,
		observers: observers,
	}
	if err := r.run(); err != nil {
		log.Error("Simulation failed", logger.Error(err))
		cancel()
		wg.Wait()
		os.Exit(1)
	}

	if !*serve {
		return
	}

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("Received shutdown signal",
		logger.String("signal", sig.String()))

	cancel()
	wg.Wait()
	log.Info("linecode stopped")
}
