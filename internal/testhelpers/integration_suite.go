package testhelpers

import (
	"bytes"
	"context"
	"math/rand/v2"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/dbehnke/linecode/pkg/channel"
	"github.com/dbehnke/linecode/pkg/config"
	"github.com/dbehnke/linecode/pkg/logger"
)

// IntegrationSuite provides infrastructure for integration tests
type IntegrationSuite struct {
	T      *testing.T
	Config *config.Config
	Logger *logger.Logger
	LogBuf *bytes.Buffer
	Ctx    context.Context
	Cancel context.CancelFunc
	Seed   uint64
	Dir    string
}

// NewIntegrationSuite creates a new integration test suite with a
// deterministic seed and report paths inside a temp dir
func NewIntegrationSuite(t *testing.T) *IntegrationSuite {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	buf := &bytes.Buffer{}
	log := logger.New(logger.Config{
		Level:  "debug",
		Format: "text",
		Output: buf,
	})

	dir := t.TempDir()
	cfg := CreateDefaultConfig()
	cfg.Report.AnalysisPath = filepath.Join(dir, "results", "analysis.md")
	cfg.Report.SignalsPath = filepath.Join(dir, "results", "signals.txt")

	return &IntegrationSuite{
		T:      t,
		Config: cfg,
		Logger: log,
		LogBuf: buf,
		Ctx:    ctx,
		Cancel: cancel,
		Seed:   cfg.Simulation.Seed,
		Dir:    dir,
	}
}

// Rand returns a fresh source seeded with the suite seed plus offset
func (s *IntegrationSuite) Rand(offset uint64) *rand.Rand {
	return Rand(s.Seed + offset)
}

// Channel returns a noise channel seeded with the suite seed plus offset
func (s *IntegrationSuite) Channel(offset uint64) *channel.Channel {
	return channel.New(s.Rand(offset))
}

// GetFreePort gets a free port for testing
func (s *IntegrationSuite) GetFreePort() int {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		s.T.Fatal(err)
	}

	listener, err := net.ListenTCP("tcp", addr)
	if err != nil {
		s.T.Fatal(err)
	}
	defer func() { _ = listener.Close() }()

	return listener.Addr().(*net.TCPAddr).Port
}

// Cleanup cleans up resources
func (s *IntegrationSuite) Cleanup() {
	s.Cancel()
}

// WaitFor waits for a condition to be true
func (s *IntegrationSuite) WaitFor(condition func() bool, timeout time.Duration, message string) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	s.T.Logf("WaitFor timeout: %s", message)
	return false
}

// AssertEventually asserts that a condition becomes true within timeout
func (s *IntegrationSuite) AssertEventually(condition func() bool, timeout time.Duration, message string) {
	if !s.WaitFor(condition, timeout, message) {
		s.T.Errorf("Assertion failed: %s", message)
	}
}

// CreateDefaultConfig creates a small, fast, reproducible configuration
func CreateDefaultConfig() *config.Config {
	cfg := config.Default()
	cfg.Simulation.MessageLength = 400
	cfg.Simulation.Trials = 20
	cfg.Simulation.Seed = 20241019
	cfg.Web.Enabled = false
	cfg.Metrics.Enabled = false
	cfg.Logging.Level = "debug"
	return cfg
}

// Rand returns a deterministic PCG source for seed
func Rand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))
}

// QuietLogger returns a logger that only reports errors to stdout
func QuietLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error"})
}
