package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"resumetric/internal/config"
	resumetricErrors "resumetric/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Client is the model-call resilience layer for one operation type. It issues
// a single completion against the primary model and, if that fails and a
// fallback model is configured, exactly one retry with the identical payload.
type Client struct {
	Provider     Provider // Exported for access from server package
	cfg          *config.OperationAIConfig
	operation    string
	breaker      *CompletionBreaker
	modelBreaker *ModelInfoBreaker
	logger       *resumetricErrors.Logger
	recordUsage  UsageRecorder
}

// UsageRecorder receives token usage after each completion that reports it.
// Wired by the server to feed token metrics without the client depending on
// the observability package.
type UsageRecorder func(ctx context.Context, operation string, usage *TokenUsage)

// Ensure Client implements ChatClient
var _ ChatClient = (*Client)(nil)

// NewClient creates a resilience client with configuration for a specific operation
func NewClient(cfg *config.OperationAIConfig, operationType string, logger *resumetricErrors.Logger) (*Client, error) {
	var provider Provider
	var err error

	logger.Debug("Initializing AI client",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"fallback_model", cfg.FallbackModel,
		"timeout", *cfg.Timeout,
		"max_tokens", *cfg.MaxTokens,
		"use_system_prompts", *cfg.UseSystemPrompts)

	switch cfg.Provider {
	case "openrouter":
		provider, err = NewOpenRouterProvider(cfg, logger)
	case "gemini":
		provider, err = NewGeminiProvider(cfg, logger)
	default:
		return nil, resumetricErrors.NewConfigError(resumetricErrors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, resumetricErrors.NewAIError(resumetricErrors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return &Client{
		Provider:     provider,
		cfg:          cfg,
		operation:    operationType,
		breaker:      NewCompletionBreaker(operationType, cfg, logger),
		modelBreaker: NewModelInfoBreaker(operationType, cfg, logger),
		logger:       logger,
	}, nil
}

// SetUsageRecorder registers a callback for token usage reporting
func (c *Client) SetUsageRecorder(r UsageRecorder) {
	c.recordUsage = r
}

// ChatText issues one completion expecting plain text, trimmed
func (c *Client) ChatText(ctx context.Context, messages []Message, temperature float32) (string, error) {
	text, err := c.complete(ctx, messages, temperature, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ChatJSON issues one completion in JSON mode and parses the result
// leniently. A parse failure carries the raw model output for diagnostics.
func (c *Client) ChatJSON(ctx context.Context, messages []Message, temperature float32) (map[string]any, error) {
	text, err := c.complete(ctx, messages, temperature, true)
	if err != nil {
		return nil, err
	}

	result, err := parseLenientJSON(text)
	if err != nil {
		return nil, resumetricErrors.NewAIError(resumetricErrors.ErrCodeAIResponseParse,
			"Failed to parse JSON from AI response. Raw response: "+text, err)
	}
	return result, nil
}

// complete runs the primary call and the single fallback substitution
func (c *Client) complete(ctx context.Context, messages []Message, temperature float32, jsonMode bool) (string, error) {
	tracer := otel.Tracer("resumetric.ai")
	ctx, span := tracer.Start(ctx, "ai."+c.operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", c.Provider.Name()),
		attribute.String("ai.model", c.cfg.Model),
		attribute.Float64("ai.temperature", float64(temperature)),
		attribute.Bool("ai.json_mode", jsonMode),
	)

	result, err := c.callModel(ctx, c.cfg.Model, messages, temperature, jsonMode)
	if err != nil {
		if c.cfg.FallbackModel == "" {
			span.RecordError(err)
			span.SetAttributes(attribute.Bool("success", false))
			return "", err
		}

		c.logger.Warn("Primary model failed, retrying with fallback model",
			"operation", c.operation,
			"primary_model", c.cfg.Model,
			"fallback_model", c.cfg.FallbackModel,
			"error", err.Error())
		span.SetAttributes(attribute.Bool("ai.fallback_used", true))

		result, err = c.callModel(ctx, c.cfg.FallbackModel, messages, temperature, jsonMode)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.Bool("success", false))
			return "", resumetricErrors.NewAIError(resumetricErrors.ErrCodeAIServiceFailed,
				fmt.Sprintf("Primary and fallback models failed. Last error: %v", err), err)
		}
	}

	if result.usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", result.usage.InputTokens),
			attribute.Int64("ai.tokens.output", result.usage.OutputTokens),
			attribute.Int64("ai.tokens.total", result.usage.TotalTokens),
		)
		c.logger.Debug("AI token usage",
			"operation", c.operation,
			"input_tokens", result.usage.InputTokens,
			"output_tokens", result.usage.OutputTokens,
			"total_tokens", result.usage.TotalTokens)
		if c.recordUsage != nil {
			c.recordUsage(ctx, c.operation, result.usage)
		}
	}

	span.SetAttributes(attribute.Bool("success", true))
	return result.text, nil
}

// callModel issues one request against one model with the operation timeout
func (c *Client) callModel(ctx context.Context, model string, messages []Message, temperature float32, jsonMode bool) (completionResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, *c.cfg.Timeout)
	defer cancel()

	return c.breaker.Execute(func() (completionResult, error) {
		text, usage, err := c.Provider.Complete(callCtx, CompletionRequest{
			Model:       model,
			Messages:    messages,
			Temperature: temperature,
			MaxTokens:   *c.cfg.MaxTokens,
			JSONMode:    jsonMode,
		})
		if err != nil {
			return completionResult{}, err
		}
		return completionResult{text: text, usage: usage}, nil
	})
}

// ModelInfo probes the availability of the configured primary model
func (c *Client) ModelInfo(ctx context.Context) *ModelInfo {
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	info, _ := c.modelBreaker.Execute(func() (*ModelInfo, error) {
		info := c.Provider.ModelInfo(checkCtx, c.cfg.Model)
		if !info.Available {
			return info, fmt.Errorf("model %s unavailable: %s", c.cfg.Model, info.Error)
		}
		return info, nil
	})
	if info == nil {
		info = &ModelInfo{Name: c.cfg.Model, Available: false, Error: "model probe rejected by circuit breaker"}
	}
	return info
}

// CircuitBreakerStats returns circuit breaker statistics for health reporting
func (c *Client) CircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations":    c.breaker.Stats(),
		"model_operations": c.modelBreaker.Stats(),
	}
	stats["overall_healthy"] = c.breaker.IsHealthy() && c.modelBreaker.IsHealthy()
	return stats
}

// Close releases provider resources
func (c *Client) Close() error {
	return c.Provider.Close()
}

var codeFencePattern = regexp.MustCompile("```[a-zA-Z]*\n?")

// parseLenientJSON decodes the first JSON object in model output, tolerating
// code fences, leading prose, trailing data, and raw control characters
// inside string literals.
func parseLenientJSON(text string) (map[string]any, error) {
	cleaned := codeFencePattern.ReplaceAllString(text, "")
	cleaned = strings.TrimSpace(cleaned)

	if idx := strings.IndexByte(cleaned, '{'); idx > 0 {
		cleaned = cleaned[idx:]
	}

	var result map[string]any
	if err := json.NewDecoder(strings.NewReader(cleaned)).Decode(&result); err == nil {
		return result, nil
	}

	var result2 map[string]any
	if err := json.NewDecoder(strings.NewReader(escapeControlChars(cleaned))).Decode(&result2); err != nil {
		return nil, err
	}
	return result2, nil
}

// escapeControlChars escapes raw control characters inside JSON string
// literals, which some models emit despite being asked for strict JSON
func escapeControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString && !escaped {
			switch ch {
			case '\n':
				b.WriteString(`\n`)
				continue
			case '\r':
				b.WriteString(`\r`)
				continue
			case '\t':
				b.WriteString(`\t`)
				continue
			}
			if ch < 0x20 {
				continue
			}
		}
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		}
		b.WriteByte(ch)
	}
	return b.String()
}
