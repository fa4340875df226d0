package ai

import (
	"context"
)

// Message is one chat message in a completion request
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describes a single chat-completion call to a provider
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
	JSONMode    bool
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents availability information about an AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// Provider issues single chat-completion requests against one backend.
// Implementations classify transport failures into the shared AI error codes
// so the client layer can apply a uniform fallback policy.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, *TokenUsage, error)
	ModelInfo(ctx context.Context, model string) *ModelInfo
	Name() string
	Close() error
}

// ChatClient is the surface the domain components use. One logical call per
// method; fallback-model substitution and circuit breaking happen below it.
type ChatClient interface {
	ChatText(ctx context.Context, messages []Message, temperature float32) (string, error)
	ChatJSON(ctx context.Context, messages []Message, temperature float32) (map[string]any, error)
}

// UserMessage builds a single-element user message slice
func UserMessage(content string) []Message {
	return []Message{{Role: "user", Content: content}}
}

// SystemAndUserMessage builds a system+user message pair
func SystemAndUserMessage(system, user string) []Message {
	return []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}
