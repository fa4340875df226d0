package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"resumetric/internal/config"
	resumetricErrors "resumetric/internal/errors"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiProvider implements Provider for Google Gemini
type GeminiProvider struct {
	client *genai.Client
	logger *resumetricErrors.Logger
}

// Ensure GeminiProvider implements Provider
var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance
func NewGeminiProvider(cfg *config.OperationAIConfig, logger *resumetricErrors.Logger) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, resumetricErrors.NewConfigError(resumetricErrors.ErrCodeMissingAPIKey,
			"AI API key is not set", nil)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, resumetricErrors.NewAIError(resumetricErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client: client,
		logger: logger,
	}, nil
}

// Name implements Provider
func (g *GeminiProvider) Name() string {
	return "gemini"
}

// Complete implements Provider. System messages become the system
// instruction; the remaining messages are concatenated into one user turn.
func (g *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (string, *TokenUsage, error) {
	genaiConfig := &genai.GenerateContentConfig{
		Temperature: &req.Temperature,
	}
	if req.MaxTokens > 0 {
		genaiConfig.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSONMode {
		genaiConfig.ResponseMIMEType = "application/json"
	}

	var userParts []string
	for _, msg := range req.Messages {
		if msg.Role == "system" {
			genaiConfig.SystemInstruction = genai.NewContentFromText(msg.Content, genai.RoleUser)
			continue
		}
		userParts = append(userParts, msg.Content)
	}

	result, err := g.client.Models.GenerateContent(ctx, req.Model,
		genai.Text(strings.Join(userParts, "\n\n")), genaiConfig)
	if err != nil {
		return "", nil, g.classifyError(err, req.Model)
	}

	return result.Text(), extractTokenUsage(result), nil
}

// classifyError maps genai/googleapi failures to the shared AI error taxonomy
func (g *GeminiProvider) classifyError(err error, model string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return resumetricErrors.NewAIError(resumetricErrors.ErrCodeAIRateLimited,
				"You have exceeded your daily limit for free models. Please try again tomorrow or add credits to your account.", err)
		}
		return resumetricErrors.NewAIError(resumetricErrors.ErrCodeAIHTTPFailure,
			fmt.Sprintf("API request failed with status %d: %s", apiErr.Code, apiErr.Message), err).
			WithContext("status_code", apiErr.Code)
	}

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

// ModelInfo checks the readiness and availability of the given model
func (g *GeminiProvider) ModelInfo(ctx context.Context, model string) *ModelInfo {
	info := &ModelInfo{
		Name:      model,
		Available: false,
	}

	m, err := g.client.Models.Get(ctx, model, &genai.GetModelConfig{})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", model,
			"provider", g.Name(),
			"error", err.Error())
		return info
	}

	info.Available = true
	if m.DisplayName != "" {
		info.DisplayName = m.DisplayName
	}
	if m.Version != "" {
		info.Version = m.Version
	}

	g.logger.Debug("Model availability check successful",
		"model", model,
		"provider", g.Name(),
		"display_name", info.DisplayName,
		"version", info.Version)

	return info
}

// Close implements Provider
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	return nil
}

// extractTokenUsage extracts token usage information from a Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
