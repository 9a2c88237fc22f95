package metrics

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dbehnke/linecode/pkg/logger"
)

// PrometheusConfig holds Prometheus server configuration
type PrometheusConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// PrometheusHandler handles Prometheus metrics HTTP requests
type PrometheusHandler struct {
	collector *Collector
}

// NewPrometheusHandler creates a new Prometheus handler
func NewPrometheusHandler(collector *Collector) *PrometheusHandler {
	return &PrometheusHandler{
		collector: collector,
	}
}

// ServeHTTP handles HTTP requests for metrics
func (h *PrometheusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	var output strings.Builder
	schemes := h.collector.GetSchemes()
	stats := make([]SchemeStats, len(schemes))
	for i, s := range schemes {
		stats[i] = h.collector.GetScheme(s)
	}

	perScheme := func(name, help, kind string, value func(SchemeStats) string) {
		output.WriteString(fmt.Sprintf("# HELP %s %s\n", name, help))
		output.WriteString(fmt.Sprintf("# TYPE %s %s\n", name, kind))
		for i, s := range schemes {
			output.WriteString(fmt.Sprintf("%s{scheme=%q} %s\n", name, s.String(), value(stats[i])))
		}
	}

	perScheme("linecode_trials_total", "Total Monte-Carlo trials", "counter",
		func(st SchemeStats) string { return fmt.Sprintf("%d", st.Trials) })
	perScheme("linecode_decode_failures_total", "Trials whose received signal could not be decoded", "counter",
		func(st SchemeStats) string { return fmt.Sprintf("%d", st.DecodeFailures) })
	perScheme("linecode_bit_errors_total", "Bit errors after decoding", "counter",
		func(st SchemeStats) string { return fmt.Sprintf("%d", st.BitErrors) })
	perScheme("linecode_flipped_symbols_total", "Line symbols corrupted by the channel", "counter",
		func(st SchemeStats) string { return fmt.Sprintf("%d", st.FlippedSymbols) })
	perScheme("linecode_mean_errors", "Mean bit errors of the latest simulation", "gauge",
		func(st SchemeStats) string { return fmt.Sprintf("%g", st.LastMean) })

	output.WriteString("# HELP linecode_simulations_total Completed per-scheme simulations\n")
	output.WriteString("# TYPE linecode_simulations_total counter\n")
	output.WriteString(fmt.Sprintf("linecode_simulations_total %d\n", h.collector.GetSimulations()))

	output.WriteString("# HELP linecode_sweep_rows_total Completed BER sweep rows\n")
	output.WriteString("# TYPE linecode_sweep_rows_total counter\n")
	output.WriteString(fmt.Sprintf("linecode_sweep_rows_total %d\n", h.collector.GetSweepRows()))

	output.WriteString("# HELP linecode_api_requests_total Dashboard API requests\n")
	output.WriteString("# TYPE linecode_api_requests_total counter\n")
	output.WriteString(fmt.Sprintf("linecode_api_requests_total %d\n", h.collector.GetAPIRequests()))

	w.Write([]byte(output.String()))
}

// PrometheusServer is an HTTP server for Prometheus metrics
type PrometheusServer struct {
	config    PrometheusConfig
	collector *Collector
	log       *logger.Logger
	server    *http.Server
}

// NewPrometheusServer creates a new Prometheus metrics server
func NewPrometheusServer(config PrometheusConfig, collector *Collector, log *logger.Logger) *PrometheusServer {
	if log == nil {
		log = logger.New(logger.Config{Level: "info", Format: "text"})
	}

	return &PrometheusServer{
		config:    config,
		collector: collector,
		log:       log.WithComponent("metrics"),
	}
}

// Start starts the Prometheus metrics server
func (s *PrometheusServer) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.log.Info("Prometheus metrics server disabled")
		return nil
	}

	handler := NewPrometheusHandler(s.collector)
	mux := http.NewServeMux()
	mux.Handle(s.config.Path, handler)

	// Use a listener to get the actual port (useful for testing with port 0)
	addr := fmt.Sprintf(":%d", s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	actualPort := listener.Addr().(*net.TCPAddr).Port

	s.server = &http.Server{
		Handler: mux,
	}

	s.log.Info("Starting Prometheus metrics server",
		logger.Int("port", actualPort),
		logger.String("path", s.config.Path))

	// Start server
	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.log.Info("Shutting down Prometheus metrics server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown error: %w", err)
		}
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

// Stop stops the Prometheus metrics server
func (s *PrometheusServer) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
	}
}
