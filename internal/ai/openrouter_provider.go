package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"resumetric/internal/config"
	resumetricErrors "resumetric/internal/errors"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultOpenRouterURL is the OpenAI-compatible chat-completions endpoint
const DefaultOpenRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterProvider implements Provider against any OpenAI-compatible
// chat-completions endpoint using a bearer credential.
type OpenRouterProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *resumetricErrors.Logger
}

// Ensure OpenRouterProvider implements Provider
var _ Provider = (*OpenRouterProvider)(nil)

// NewOpenRouterProvider creates a provider for the configured endpoint.
// The request deadline comes from the caller's context, not the HTTP client.
func NewOpenRouterProvider(cfg *config.OperationAIConfig, logger *resumetricErrors.Logger) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, resumetricErrors.NewConfigError(resumetricErrors.ErrCodeMissingAPIKey,
			"AI API key is not set", nil)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenRouterURL
	}

	return &OpenRouterProvider{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}, nil
}

// Name implements Provider
func (p *OpenRouterProvider) Name() string {
	return "openrouter"
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float32         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
}

// Complete implements Provider for the OpenAI-compatible wire format
func (p *OpenRouterProvider) Complete(ctx context.Context, req CompletionRequest) (string, *TokenUsage, error) {
	payload := chatCompletionRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", nil, resumetricErrors.NewInternalError(resumetricErrors.ErrCodeInvalidFormat,
			"Failed to encode chat completion request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", nil, resumetricErrors.NewInternalError(resumetricErrors.ErrCodeInvalidRequest,
			"Failed to build chat completion request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", nil, p.classifyTransportError(err, req.Model)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			p.logger.Warn("Failed to close response body", "error", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, resumetricErrors.NewNetworkError(resumetricErrors.ErrCodeAIHTTPFailure,
			"Failed to read chat completion response", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", nil, resumetricErrors.NewAIError(resumetricErrors.ErrCodeAIRateLimited,
			"You have exceeded your daily limit for free models. Please try again tomorrow or add credits to your account.", nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil, resumetricErrors.NewAIError(resumetricErrors.ErrCodeAIHTTPFailure,
			fmt.Sprintf("API request failed with status %d: %s", resp.StatusCode, string(respBody)), nil).
			WithContext("status_code", resp.StatusCode)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", nil, resumetricErrors.NewAIError(resumetricErrors.ErrCodeAIResponseParse,
			"Failed to decode chat completion response body", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil, resumetricErrors.NewAIError(resumetricErrors.ErrCodeAIResponseParse,
			"Chat completion response contained no choices", nil)
	}

	var usage *TokenUsage
	if parsed.Usage != nil {
		usage = &TokenUsage{
			InputTokens:  parsed.Usage.PromptTokens,
			OutputTokens: parsed.Usage.CompletionTokens,
			TotalTokens:  parsed.Usage.TotalTokens,
		}
	}

	return parsed.Choices[0].Message.Content, usage, nil
}

// classifyTransportError maps request transport failures to the AI error taxonomy
func (p *OpenRouterProvider) classifyTransportError(err error, model string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return resumetricErrors.NewAIError(resumetricErrors.ErrCodeAITimeout,
			fmt.Sprintf("API request timed out for model %s", model), err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return resumetricErrors.NewAIError(resumetricErrors.ErrCodeAITimeout,
			fmt.Sprintf("API request timed out for model %s", model), err)
	}
	return resumetricErrors.NewAIError(resumetricErrors.ErrCodeAIServiceFailed,
		"An unexpected error occurred during the API call", err)
}

// ModelInfo reports a static readiness view for OpenAI-compatible endpoints.
// The chat-completions contract has no cheap model probe, so availability is
// reported from configuration alone.
func (p *OpenRouterProvider) ModelInfo(ctx context.Context, model string) *ModelInfo {
	info := &ModelInfo{
		Name:      model,
		Available: model != "" && p.apiKey != "",
	}
	if !info.Available {
		info.Error = "model or API key not configured"
	}
	return info
}

// Close implements Provider
func (p *OpenRouterProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}
