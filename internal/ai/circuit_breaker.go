package ai

import (
	"fmt"

	"resumetric/internal/config"
	"resumetric/internal/errors"

	"github.com/sony/gobreaker/v2"
)

// completionResult carries a provider completion through the breaker
type completionResult struct {
	text  string
	usage *TokenUsage
}

// CompletionBreaker wraps chat-completion calls with circuit breaker pattern,
// one breaker per operation type
type CompletionBreaker struct {
	cb *gobreaker.CircuitBreaker[completionResult]
}

// ModelInfoBreaker wraps model availability probes with circuit breaker pattern
type ModelInfoBreaker struct {
	cb *gobreaker.CircuitBreaker[*ModelInfo]
}

// NewCompletionBreaker creates a circuit breaker configured for a specific operation type
func NewCompletionBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *CompletionBreaker {
	// If circuit breaker is disabled, return nil to indicate no circuit breaker
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        fmt.Sprintf("AI-%s", operationType),
		MaxRequests: cfg.CircuitBreaker.MaxRequests,
		Interval:    cfg.CircuitBreaker.Interval,
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.CircuitBreaker.MinRequests &&
				failureRatio >= cfg.CircuitBreaker.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"operation_type", operationType,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.CircuitBreaker.MaxRequests,
				"failure_threshold", cfg.CircuitBreaker.FailureThreshold)
		},
	}

	return &CompletionBreaker{
		cb: gobreaker.NewCircuitBreaker[completionResult](settings),
	}
}

// NewModelInfoBreaker creates a model probe circuit breaker for a specific operation type
func NewModelInfoBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *ModelInfoBreaker {
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        fmt.Sprintf("AI-Model-%s", operationType),
		MaxRequests: cfg.CircuitBreaker.MaxRequests,
		Interval:    cfg.CircuitBreaker.Interval,
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Model probes are less critical, so use more lenient settings
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.8
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"operation_type", operationType,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.CircuitBreaker.MaxRequests)
		},
	}

	return &ModelInfoBreaker{
		cb: gobreaker.NewCircuitBreaker[*ModelInfo](settings),
	}
}

// Execute executes the provided function with circuit breaker protection
func (cb *CompletionBreaker) Execute(fn func() (completionResult, error)) (completionResult, error) {
	if cb == nil || cb.cb == nil {
		// If breaker is disabled/nil, just execute the function directly
		return fn()
	}
	return cb.cb.Execute(fn)
}

// Execute executes the provided model probe with circuit breaker protection
func (cb *ModelInfoBreaker) Execute(fn func() (*ModelInfo, error)) (*ModelInfo, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

// Stats returns circuit breaker statistics
func (cb *CompletionBreaker) Stats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{
			"enabled": false,
		}
	}

	return map[string]any{
		"name":    cb.cb.Name(),
		"state":   cb.cb.State().String(),
		"counts":  cb.cb.Counts(),
		"enabled": true,
	}
}

// Stats returns model probe circuit breaker statistics
func (cb *ModelInfoBreaker) Stats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{
			"enabled": false,
		}
	}

	return map[string]any{
		"name":    cb.cb.Name(),
		"state":   cb.cb.State().String(),
		"counts":  cb.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy returns true if the circuit breaker is in closed state
func (cb *CompletionBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true // If no circuit breaker, consider it healthy
	}
	return cb.cb.State() == gobreaker.StateClosed
}

// IsHealthy returns true if the model probe circuit breaker is in closed state
func (cb *ModelInfoBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}
