package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dbehnke/linecode/pkg/analysis"
	"github.com/dbehnke/linecode/pkg/linecode"
)

// TestNewPrometheusHandler tests creating a new handler
func TestNewPrometheusHandler(t *testing.T) {
	collector := NewCollector()
	handler := NewPrometheusHandler(collector)

	if handler == nil {
		t.Fatal("Expected non-nil handler")
	}
}

// TestPrometheusHandler_ServeHTTP tests the HTTP handler
func TestPrometheusHandler_ServeHTTP(t *testing.T) {
	collector := NewCollector()
	handler := NewPrometheusHandler(collector)

	// Add some test data
	collector.TrialCompleted(linecode.NRZ, analysis.Trial{Errors: 2, Flipped: 2})
	collector.TrialCompleted(linecode.FourBFiveB, analysis.Trial{Errors: 8, DecodeFailed: true})
	collector.SummaryCompleted(analysis.Summary{Scheme: linecode.NRZ, Mean: 2})

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	// Check that key metrics are present in output
	expectedMetrics := []string{
		`linecode_trials_total{scheme="NRZ"} 1`,
		`linecode_bit_errors_total{scheme="NRZ"} 2`,
		`linecode_decode_failures_total{scheme="4B/5B"} 1`,
		`linecode_mean_errors{scheme="NRZ"} 2`,
		"linecode_simulations_total 1",
		"linecode_sweep_rows_total 0",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(bodyStr, metric) {
			t.Errorf("Expected metric %s in output", metric)
		}
	}
}

// TestPrometheusHandler_Format tests metric format
func TestPrometheusHandler_Format(t *testing.T) {
	collector := NewCollector()
	handler := NewPrometheusHandler(collector)

	collector.TrialCompleted(linecode.Manchester, analysis.Trial{})

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	body, _ := io.ReadAll(w.Result().Body)
	bodyStr := string(body)

	// Check for basic Prometheus format (# HELP, # TYPE, metric lines)
	if !strings.Contains(bodyStr, "# HELP") {
		t.Error("Expected # HELP comments in output")
	}
	if !strings.Contains(bodyStr, "# TYPE") {
		t.Error("Expected # TYPE comments in output")
	}
}

// TestPrometheusServer tests starting and stopping the Prometheus server
func TestPrometheusServer(t *testing.T) {
	collector := NewCollector()
	config := PrometheusConfig{
		Enabled: true,
		Port:    0, // Use random port
		Path:    "/metrics",
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := NewPrometheusServer(config, collector, nil)

	// Start server in background
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(ctx)
	}()

	// Give server time to start
	time.Sleep(100 * time.Millisecond)

	// Stop server
	cancel()

	// Wait for server to stop
	select {
	case err := <-errChan:
		if err != nil && err != context.Canceled && err != http.ErrServerClosed {
			t.Errorf("Unexpected error from server: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Server did not stop in time")
	}
}

// TestPrometheusServer_Disabled tests that disabled server doesn't start
func TestPrometheusServer_Disabled(t *testing.T) {
	collector := NewCollector()
	config := PrometheusConfig{
		Enabled: false,
	}

	ctx := context.Background()
	server := NewPrometheusServer(config, collector, nil)

	err := server.Start(ctx)
	if err != nil {
		t.Errorf("Expected no error when disabled, got %v", err)
	}
}
