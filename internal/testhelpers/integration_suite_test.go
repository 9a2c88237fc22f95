package testhelpers

import (
	"testing"
	"time"
)

// TestIntegrationSuite_Basic tests basic integration suite functionality
func TestIntegrationSuite_Basic(t *testing.T) {
	suite := NewIntegrationSuite(t)
	defer suite.Cleanup()

	if suite.Logger == nil {
		t.Error("Expected logger to be initialized")
	}

	if suite.Ctx == nil {
		t.Error("Expected context to be initialized")
	}

	if suite.Config.Simulation.Seed == 0 {
		t.Error("Expected a fixed seed in the default test config")
	}
}

// TestIntegrationSuite_RandIsDeterministic checks seeded sources repeat
func TestIntegrationSuite_RandIsDeterministic(t *testing.T) {
	suite := NewIntegrationSuite(t)
	defer suite.Cleanup()

	a, b := suite.Rand(1), suite.Rand(1)
	for i := 0; i < 10; i++ {
		if x, y := a.Uint64(), b.Uint64(); x != y {
			t.Fatalf("draw %d differs: %d != %d", i, x, y)
		}
	}
	if suite.Rand(1).Uint64() == suite.Rand(2).Uint64() {
		t.Error("Expected different offsets to give different streams")
	}
}

// TestIntegrationSuite_WaitFor tests the WaitFor helper
func TestIntegrationSuite_WaitFor(t *testing.T) {
	suite := NewIntegrationSuite(t)
	defer suite.Cleanup()

	counter := 0
	condition := func() bool {
		counter++
		return counter >= 3
	}

	if !suite.WaitFor(condition, 1*time.Second, "counter to reach 3") {
		t.Error("WaitFor should have succeeded")
	}

	if suite.WaitFor(func() bool { return false }, 50*time.Millisecond, "never true") {
		t.Error("WaitFor should have timed out")
	}
}

// TestIntegrationSuite_GetFreePort tests getting a free port
func TestIntegrationSuite_GetFreePort(t *testing.T) {
	suite := NewIntegrationSuite(t)
	defer suite.Cleanup()

	port := suite.GetFreePort()
	if port <= 0 || port > 65535 {
		t.Errorf("Invalid port: %d", port)
	}
}
