package keywords

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"testing"
	"unicode/utf8"

	"resumetric/internal/ai"
	"resumetric/internal/config"
	"resumetric/internal/errors"
)

// fakeChatClient returns canned JSON results or errors for ChatJSON calls
type fakeChatClient struct {
	jsonResult map[string]any
	err        error
}

func (f *fakeChatClient) ChatText(_ context.Context, _ []ai.Message, _ float32) (string, error) {
	return "", f.err
}

func (f *fakeChatClient) ChatJSON(_ context.Context, _ []ai.Message, _ float32) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.jsonResult, nil
}

func newTestEngine(client ai.ChatClient) *Engine {
	useSystem := true
	cfg := &config.OperationAIConfig{UseSystemPrompts: &useSystem}
	return NewEngine(client, cfg, errors.NewLogger(slog.LevelError))
}

func TestMatchPercentageRounding(t *testing.T) {
	// 1 of 3 job keywords matched should round to 33.3, not 33.33333
	client := &fakeChatClient{jsonResult: map[string]any{
		"keywords": []any{"kubernetes", "terraform", "golang"},
	}}
	engine := newTestEngine(client)

	result, err := engine.Match(context.Background(),
		"Senior engineer with golang experience building services", "job text")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	if result.MatchPercentage != 33.3 {
		t.Errorf("Expected match percentage 33.3, got %v", result.MatchPercentage)
	}
	if result.TotalJobKeywords != 3 {
		t.Errorf("Expected 3 total job keywords, got %d", result.TotalJobKeywords)
	}
	if result.TotalMatched != 1 {
		t.Errorf("Expected 1 matched keyword, got %d", result.TotalMatched)
	}
	if !reflect.DeepEqual(result.MatchedKeywords, []string{"golang"}) {
		t.Errorf("Expected matched [golang], got %v", result.MatchedKeywords)
	}
	if !reflect.DeepEqual(result.MissingKeywords, []string{"kubernetes", "terraform"}) {
		t.Errorf("Expected missing keywords sorted, got %v", result.MissingKeywords)
	}
}

func TestMatchEmptyJobDescription(t *testing.T) {
	// Empty job description means zero job keywords without any AI call
	client := &fakeChatClient{err: fmt.Errorf("should not be called")}
	engine := newTestEngine(client)

	result, err := engine.Match(context.Background(), "resume with content", "   ")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	// Resume has keywords but the job asked for nothing
	if result.MatchPercentage != 100 {
		t.Errorf("Expected 100%% match for empty job description, got %v", result.MatchPercentage)
	}
	if result.TotalJobKeywords != 0 {
		t.Errorf("Expected 0 job keywords, got %d", result.TotalJobKeywords)
	}
}

func TestMatchEmptyBothSides(t *testing.T) {
	client := &fakeChatClient{}
	engine := newTestEngine(client)

	result, err := engine.Match(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	if result.MatchPercentage != 0 {
		t.Errorf("Expected 0%% match when both sides empty, got %v", result.MatchPercentage)
	}
}

func TestMatchMissingKeywordsCapped(t *testing.T) {
	raw := make([]any, 0, 20)
	for i := 0; i < 20; i++ {
		raw = append(raw, fmt.Sprintf("keyword%02d", i))
	}
	client := &fakeChatClient{jsonResult: map[string]any{"keywords": raw}}
	engine := newTestEngine(client)

	result, err := engine.Match(context.Background(), "unrelated resume text", "job")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	if len(result.MissingKeywords) != 15 {
		t.Errorf("Expected missing keywords capped at 15, got %d", len(result.MissingKeywords))
	}
}

func TestJobKeywordsFallbackOnAIError(t *testing.T) {
	client := &fakeChatClient{err: fmt.Errorf("provider unavailable")}
	engine := newTestEngine(client)

	keywords, err := engine.JobKeywords(context.Background(),
		"Looking for kubernetes and terraform experience")
	if err != nil {
		t.Fatalf("Expected fallback, got error: %v", err)
	}

	if _, ok := keywords["kubernetes"]; !ok {
		t.Errorf("Expected fallback extraction to include 'kubernetes', got %v", keywords)
	}
	if _, ok := keywords["and"]; ok {
		t.Error("Expected stop word 'and' to be excluded from fallback keywords")
	}
}

func TestJobKeywordsContextCancelled(t *testing.T) {
	client := &fakeChatClient{err: fmt.Errorf("request aborted")}
	engine := newTestEngine(client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.JobKeywords(ctx, "some job description")
	if err == nil {
		t.Fatal("Expected context error, got nil")
	}
}

func TestJobKeywordsFiltersLength(t *testing.T) {
	client := &fakeChatClient{jsonResult: map[string]any{
		"keywords": []any{"go", "  Kubernetes  ", 42, string(make([]byte, 60))},
	}}
	engine := newTestEngine(client)

	keywords, err := engine.JobKeywords(context.Background(), "job")
	if err != nil {
		t.Fatalf("JobKeywords returned error: %v", err)
	}

	if len(keywords) != 1 {
		t.Fatalf("Expected only one valid keyword, got %v", keywords)
	}
	if _, ok := keywords["kubernetes"]; !ok {
		t.Errorf("Expected normalized 'kubernetes', got %v", keywords)
	}
}

func TestResumeKeywords(t *testing.T) {
	text := "Built machine learning pipelines. Machine learning models deployed in 2023."

	keywords := ResumeKeywords(text)

	if _, ok := keywords["machine"]; !ok {
		t.Error("Expected unigram 'machine' to be extracted")
	}
	if _, ok := keywords["machine learning"]; !ok {
		t.Error("Expected frequent bigram 'machine learning' to be extracted")
	}
	if _, ok := keywords["2023"]; ok {
		t.Error("Expected all-digit token to be excluded")
	}
	if _, ok := keywords["in"]; ok {
		t.Error("Expected stop word 'in' to be excluded")
	}
}

func TestTopBigramsOrdering(t *testing.T) {
	words := []string{
		"cloud", "native", "cloud", "native", "service", "mesh",
	}

	bigrams := topBigrams(words, 2)

	if len(bigrams) != 2 {
		t.Fatalf("Expected 2 bigrams, got %v", bigrams)
	}
	if bigrams[0] != "cloud native" {
		t.Errorf("Expected most frequent bigram first, got %v", bigrams)
	}
}

func TestTruncateRuneBoundary(t *testing.T) {
	tests := []struct {
		input    string
		n        int
		expected string
	}{
		{"abcdef", 3, "abc"},
		{"abc", 10, "abc"},
		{"ab世", 3, "ab"},     // cut would land inside the 3-byte rune
		{"ab世", 5, "ab世"},
		{"résumé", 2, "r"},
	}

	for _, tt := range tests {
		got := truncate(tt.input, tt.n)
		if got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.expected)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8: %q", tt.input, tt.n, got)
		}
	}
}
