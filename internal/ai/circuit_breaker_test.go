package ai

import (
	"fmt"
	"testing"
	"time"

	"resumetric/internal/config"
)

var errTest = fmt.Errorf("simulated provider failure")

func breakerConfig(maxRequests uint32, minRequests uint32, threshold float64) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider: "openrouter",
		Model:    "test-model",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      maxRequests,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			MinRequests:      minRequests,
			FailureThreshold: threshold,
		},
	}
}

func TestIndependentCircuitBreakerConfigurations(t *testing.T) {
	// Each operation gets its own breaker with its own settings
	breakers := map[string]*CompletionBreaker{
		"parse":   NewCompletionBreaker("parse", breakerConfig(3, 3, 0.6), testLogger()),
		"score":   NewCompletionBreaker("score", breakerConfig(5, 2, 0.7), testLogger()),
		"bullets": NewCompletionBreaker("bullets", breakerConfig(4, 5, 0.5), testLogger()),
		"rewrite": NewCompletionBreaker("rewrite", breakerConfig(2, 4, 0.8), testLogger()),
	}

	for operation, breaker := range breakers {
		t.Run(operation, func(t *testing.T) {
			stats := breaker.Stats()

			name, ok := stats["name"].(string)
			if !ok {
				t.Fatal("Circuit breaker name not found")
			}
			expectedName := "AI-" + operation
			if name != expectedName {
				t.Errorf("Expected circuit breaker name '%s', got '%s'", expectedName, name)
			}

			state, ok := stats["state"].(string)
			if !ok {
				t.Fatal("Circuit breaker state not found")
			}
			if state != "closed" {
				t.Errorf("Expected initial state 'closed', got '%s'", state)
			}

			enabled, ok := stats["enabled"].(bool)
			if !ok {
				t.Fatal("Circuit breaker enabled status not found")
			}
			if !enabled {
				t.Error("Circuit breaker should be enabled")
			}

			if !breaker.IsHealthy() {
				t.Error("Closed breaker should report healthy")
			}
		})
	}
}

func TestCircuitBreakerTripsOnFailures(t *testing.T) {
	cfg := breakerConfig(1, 2, 0.5)
	breaker := NewCompletionBreaker("parse", cfg, testLogger())

	failing := func() (completionResult, error) {
		return completionResult{}, errTest
	}

	// Drive enough failures past MinRequests to trip the breaker
	for i := 0; i < 3; i++ {
		_, _ = breaker.Execute(failing)
	}

	if breaker.IsHealthy() {
		t.Error("Expected breaker to trip after repeated failures")
	}
	stats := breaker.Stats()
	if stats["state"] == "closed" {
		t.Errorf("Expected non-closed state, got %v", stats["state"])
	}
}

func TestModelInfoBreakerDisabled(t *testing.T) {
	cfg := &config.OperationAIConfig{Provider: "openrouter", Model: "test-model"}

	breaker := NewModelInfoBreaker("parse", cfg, testLogger())
	if breaker != nil {
		t.Fatal("Expected nil model breaker when disabled")
	}

	info, err := breaker.Execute(func() (*ModelInfo, error) {
		return &ModelInfo{Name: "test-model", Available: true}, nil
	})
	if err != nil || info == nil || !info.Available {
		t.Errorf("Expected direct execution through nil breaker, got %v %v", info, err)
	}
	if !breaker.IsHealthy() {
		t.Error("Expected nil breaker to report healthy")
	}
}
