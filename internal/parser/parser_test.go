package parser

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"testing"

	"resumetric/internal/ai"
	"resumetric/internal/config"
	"resumetric/internal/errors"
)

const structuredResume = `Jane Doe
Senior Software Engineer
jane.doe@example.com | (555) 123-4567

Summary:
Engineer with ten years of backend experience.

Skills:
Go
PostgreSQL
Kubernetes

Experience:
Acme Corp - Senior Engineer (2019-2024)
`

func TestParseTier1Structured(t *testing.T) {
	record, ok := ParseTier1(structuredResume)
	if !ok {
		t.Fatal("Expected tier-1 parse to accept a structured resume")
	}

	if record.Name != "Jane Doe" {
		t.Errorf("Expected name 'Jane Doe', got '%s'", record.Name)
	}
	if record.Title != "Senior Software Engineer" {
		t.Errorf("Expected title from second header line, got '%s'", record.Title)
	}
	if record.Email != "jane.doe@example.com" {
		t.Errorf("Expected email extracted from header, got '%s'", record.Email)
	}
	if record.Phone == "" {
		t.Error("Expected phone extracted from header")
	}
	if record.Summary != "Engineer with ten years of backend experience." {
		t.Errorf("Unexpected summary: '%s'", record.Summary)
	}
	if !reflect.DeepEqual(record.Skills, []string{"Go", "PostgreSQL", "Kubernetes"}) {
		t.Errorf("Expected skills split into lines, got %v", record.Skills)
	}
	// Entry decomposition is the AI parser's job
	if len(record.Experience) != 0 {
		t.Errorf("Expected no experience entries from tier 1, got %v", record.Experience)
	}
}

func TestParseTier1RejectsUnstructured(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "no section headers",
			text: "Jane Doe\njane@example.com\nI write software for a living.",
		},
		{
			name: "single section header",
			text: "Jane Doe\njane@example.com\n\nSkills:\nGo",
		},
		{
			name: "sections but no email",
			text: "Jane Doe\n\nSkills:\nGo\n\nExperience:\nAcme Corp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ParseTier1(tt.text); ok {
				t.Error("Expected tier-1 parse to reject and escalate")
			}
		})
	}
}

func TestParseTier1InlineHeaderNotBoundary(t *testing.T) {
	// "experience" mid-sentence must not count as a section header
	text := "Jane Doe\njane@example.com\nMy experience includes Go.\nMy skills include SQL."
	if _, ok := ParseTier1(text); ok {
		t.Error("Expected inline keywords to not count as section boundaries")
	}
}

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapses blank runs", "a\n\n\n\nb", "a\n\nb"},
		{"collapses space runs", "a    b", "a b"},
		{"trims edges", "  text  ", "text"},
		{"preserves single blank line", "a\n\nb", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preprocess(tt.input); got != tt.expected {
				t.Errorf("Preprocess(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	data := map[string]any{
		"name":   "  Jane Doe  ",
		"email":  "jane@example.com",
		"skills": []any{"Go", 42, "SQL"},
		"experience": []any{
			map[string]any{"role": "Engineer", "company": "Acme"},
			"not an object",
		},
		"education": "not a list",
	}

	record := Normalize(data)

	if record.Name != "Jane Doe" {
		t.Errorf("Expected trimmed name, got '%s'", record.Name)
	}
	if !reflect.DeepEqual(record.Skills, []string{"Go", "SQL"}) {
		t.Errorf("Expected non-string skills dropped, got %v", record.Skills)
	}
	if len(record.Experience) != 2 {
		t.Fatalf("Expected entries preserved in order, got %d", len(record.Experience))
	}
	if record.Experience[0].Role != "Engineer" || record.Experience[0].Company != "Acme" {
		t.Errorf("Unexpected first experience entry: %+v", record.Experience[0])
	}
	// A non-object entry still yields a record with empty fields
	if record.Experience[1].Role != "" {
		t.Errorf("Expected empty fields for malformed entry, got %+v", record.Experience[1])
	}
	if record.Education == nil || len(record.Education) != 0 {
		t.Errorf("Expected non-sequence education to become empty slice, got %v", record.Education)
	}
	if record.Projects == nil || record.Certifications == nil {
		t.Error("Expected all sequence fields present even when absent from input")
	}
}

type fakeChatClient struct {
	jsonResult map[string]any
	err        error
	calls      int
}

func (f *fakeChatClient) ChatText(_ context.Context, _ []ai.Message, _ float32) (string, error) {
	return "", f.err
}

func (f *fakeChatClient) ChatJSON(_ context.Context, _ []ai.Message, _ float32) (map[string]any, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.jsonResult, nil
}

func newTestParser(client ai.ChatClient) *Parser {
	useSystem := true
	cfg := &config.OperationAIConfig{UseSystemPrompts: &useSystem}
	return New(client, cfg, errors.NewLogger(slog.LevelError))
}

func TestParserTier1SkipsAI(t *testing.T) {
	client := &fakeChatClient{err: fmt.Errorf("should not be called")}
	parser := newTestParser(client)

	record, err := parser.Parse(context.Background(), structuredResume)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if record.Name != "Jane Doe" {
		t.Errorf("Expected tier-1 result, got '%s'", record.Name)
	}
	if client.calls != 0 {
		t.Errorf("Expected no AI call for structured resume, got %d", client.calls)
	}
}

func TestParserEscalatesToAI(t *testing.T) {
	client := &fakeChatClient{jsonResult: map[string]any{
		"name":  "John Smith",
		"email": "john@example.com",
	}}
	parser := newTestParser(client)

	record, err := parser.Parse(context.Background(), "John Smith wrote code at various places.")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if record.Name != "John Smith" {
		t.Errorf("Expected AI-parsed name, got '%s'", record.Name)
	}
	if client.calls != 1 {
		t.Errorf("Expected exactly one AI call, got %d", client.calls)
	}
}

func TestParserAIFailurePropagates(t *testing.T) {
	client := &fakeChatClient{err: fmt.Errorf("model overloaded")}
	parser := newTestParser(client)

	_, err := parser.Parse(context.Background(), "unstructured text")
	if err == nil {
		t.Fatal("Expected error when AI parse fails")
	}

	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("Expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeResumeParse {
		t.Errorf("Expected code %s, got %s", errors.ErrCodeResumeParse, appErr.Code)
	}
}
