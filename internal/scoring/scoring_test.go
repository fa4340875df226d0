package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"resumetric/internal/ai"
	"resumetric/internal/config"
	"resumetric/internal/errors"
	"resumetric/internal/types"
)

// fakeChatClient replays queued ChatJSON responses in order
type fakeChatClient struct {
	responses []map[string]any
	err       error
	calls     int
}

func (f *fakeChatClient) ChatText(_ context.Context, _ []ai.Message, _ float32) (string, error) {
	return "", f.err
}

func (f *fakeChatClient) ChatJSON(_ context.Context, _ []ai.Message, _ float32) (map[string]any, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return map[string]any{}, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func newTestScorer(client ai.ChatClient) *Scorer {
	useSystem := true
	cfg := &config.OperationAIConfig{UseSystemPrompts: &useSystem}
	return NewScorer(client, cfg, errors.NewLogger(slog.LevelError))
}

func fullRecord() *types.ResumeRecord {
	longDetails := strings.Repeat("Shipped features and improved reliability. ", 4)
	return &types.ResumeRecord{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Phone:   "555-123-4567",
		Summary: strings.Repeat("Seasoned backend engineer. ", 3),
		Skills: []string{
			"Go", "SQL", "Kubernetes", "Docker", "Terraform",
			"Redis", "Kafka", "gRPC", "Linux", "Git",
		},
		Experience: []types.ExperienceEntry{
			{Role: "Engineer", Company: "A", Details: longDetails},
			{Role: "Engineer", Company: "B", Details: longDetails},
			{Role: "Engineer", Company: "C", Details: "short"},
		},
		Education:      []types.EducationEntry{{Degree: "BSc", Institution: "State"}},
		Projects:       []types.ProjectEntry{{Name: "p1"}, {Name: "p2"}},
		Certifications: []types.CertificationEntry{{Name: "c1"}, {Name: "c2"}},
	}
}

func TestCompletenessFullRecord(t *testing.T) {
	result := Completeness(fullRecord())

	if result.TotalScore != 100 {
		t.Errorf("Expected full record to score 100, got %d (breakdown %+v)",
			result.TotalScore, result.Breakdown)
	}
	if result.Percentage != 100 {
		t.Errorf("Expected 100%%, got %v", result.Percentage)
	}
	if result.MaxScore != 100 {
		t.Errorf("Expected max score 100, got %d", result.MaxScore)
	}
}

func TestCompletenessEmptyRecord(t *testing.T) {
	result := Completeness(&types.ResumeRecord{})

	if result.TotalScore != 0 {
		t.Errorf("Expected empty record to score 0, got %d", result.TotalScore)
	}
	if result.Percentage != 0 {
		t.Errorf("Expected 0%%, got %v", result.Percentage)
	}
}

func TestCompletenessPartialCredit(t *testing.T) {
	tests := []struct {
		name     string
		record   types.ResumeRecord
		expected int
	}{
		{
			name:     "contact only name and email",
			record:   types.ResumeRecord{Name: "Jane", Email: "j@e.com"},
			expected: 10,
		},
		{
			name:     "short summary",
			record:   types.ResumeRecord{Summary: "Engineer with experience."},
			expected: 5,
		},
		{
			name:     "long summary",
			record:   types.ResumeRecord{Summary: strings.Repeat("x", 51)},
			expected: 10,
		},
		{
			name: "one experience entry no details",
			record: types.ResumeRecord{
				Experience: []types.ExperienceEntry{{Role: "Engineer"}},
			},
			expected: 10,
		},
		{
			name: "one detailed experience entry",
			record: types.ResumeRecord{
				Experience: []types.ExperienceEntry{
					{Role: "Engineer", Details: strings.Repeat("x", 101)},
				},
			},
			expected: 20,
		},
		{
			name:     "five skills",
			record:   types.ResumeRecord{Skills: []string{"a", "b", "c", "d", "e"}},
			expected: 10,
		},
		{
			name:     "one project one certification",
			record:   types.ResumeRecord{Projects: []types.ProjectEntry{{Name: "p"}}, Certifications: []types.CertificationEntry{{Name: "c"}}},
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Completeness(&tt.record)
			if result.TotalScore != tt.expected {
				t.Errorf("Expected score %d, got %d (breakdown %+v)",
					tt.expected, result.TotalScore, result.Breakdown)
			}
		})
	}
}

func TestScoreEmptyJobDescription(t *testing.T) {
	client := &fakeChatClient{err: fmt.Errorf("should not be called")}
	scorer := newTestScorer(client)

	result := scorer.Score(context.Background(), "resume text", "   ", nil)

	if result.AtsScore != 0 {
		t.Errorf("Expected zero score for empty job description, got %v", result.AtsScore)
	}
	if len(result.Recommendations) != 1 ||
		!strings.Contains(result.Recommendations[0], "Add a job description") {
		t.Errorf("Expected instructive recommendation, got %v", result.Recommendations)
	}
	if result.ScoreBreakdown == nil || *result.ScoreBreakdown != (types.ScoreBreakdown{}) {
		t.Errorf("Expected empty breakdown, got %+v", result.ScoreBreakdown)
	}
	if client.calls != 0 {
		t.Errorf("Expected no AI calls, got %d", client.calls)
	}
}

func TestScoreComposite(t *testing.T) {
	// First response feeds keyword extraction, second the quality score
	client := &fakeChatClient{responses: []map[string]any{
		{"keywords": []any{"golang", "kubernetes"}},
		{"total": 24.0},
	}}
	scorer := newTestScorer(client)

	result := scorer.Score(context.Background(),
		"Engineer building golang services in production", "job description", fullRecord())

	// Keyword: 1 of 2 matched = 20.0 of 40. Completeness: 30 of 30. Quality: 24.
	expected := 20.0 + 30.0 + 24.0
	if result.AtsScore != expected {
		t.Errorf("Expected composite score %v, got %v", expected, result.AtsScore)
	}
	if result.ScoreBreakdown == nil {
		t.Fatal("Expected score breakdown to be populated")
	}
	if result.ScoreBreakdown.KeywordMatch != 20.0 {
		t.Errorf("Expected keyword component 20.0, got %v", result.ScoreBreakdown.KeywordMatch)
	}
	if result.ScoreBreakdown.Completeness != 30.0 {
		t.Errorf("Expected completeness component 30.0, got %v", result.ScoreBreakdown.Completeness)
	}
	if result.ScoreBreakdown.AIQuality != 24.0 {
		t.Errorf("Expected quality component 24.0, got %v", result.ScoreBreakdown.AIQuality)
	}
	if result.ScoreBreakdown.KeywordDetails.Matched != 1 ||
		result.ScoreBreakdown.KeywordDetails.Total != 2 {
		t.Errorf("Unexpected keyword details: %+v", result.ScoreBreakdown.KeywordDetails)
	}
}

func TestScoreTextLengthFallback(t *testing.T) {
	tests := []struct {
		name       string
		resumeText string
		expected   float64
	}{
		{"long text", strings.Repeat("golang ", 100), 15},
		{"short text", "golang", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeChatClient{responses: []map[string]any{
				{"keywords": []any{"golang"}},
				{"total": 0.0},
			}}
			scorer := newTestScorer(client)

			result := scorer.Score(context.Background(), tt.resumeText, "job", nil)

			if result.ScoreBreakdown == nil {
				t.Fatal("Expected score breakdown")
			}
			if result.ScoreBreakdown.Completeness != tt.expected {
				t.Errorf("Expected completeness fallback %v, got %v",
					tt.expected, result.ScoreBreakdown.Completeness)
			}
		})
	}
}

func TestScoreQualityDegradesToMidpoint(t *testing.T) {
	// Malformed quality response falls back to the 15-point midpoint
	client := &fakeChatClient{responses: []map[string]any{
		{"keywords": []any{"golang"}},
		{"unexpected": "shape"},
	}}
	scorer := newTestScorer(client)

	result := scorer.Score(context.Background(), "golang engineer resume", "job", nil)

	if result.ScoreBreakdown.AIQuality != 15.0 {
		t.Errorf("Expected midpoint quality score 15.0, got %v", result.ScoreBreakdown.AIQuality)
	}
}

func TestScoreDegradedOnCancelledContext(t *testing.T) {
	client := &fakeChatClient{err: fmt.Errorf("aborted")}
	scorer := newTestScorer(client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := scorer.Score(ctx, "resume", "job", nil)

	if result.AtsScore != 0 {
		t.Errorf("Expected degraded zero score, got %v", result.AtsScore)
	}
	if len(result.Recommendations) != 1 ||
		!strings.Contains(result.Recommendations[0], "try again") {
		t.Errorf("Expected retry recommendation, got %v", result.Recommendations)
	}
	if result.ScoreBreakdown == nil || *result.ScoreBreakdown != (types.ScoreBreakdown{}) {
		t.Errorf("Expected empty breakdown, got %+v", result.ScoreBreakdown)
	}
}

func TestRecommendationsCapAndOrder(t *testing.T) {
	analysis := types.KeywordMatchResult{
		MissingKeywords: []string{"a", "b", "c", "d", "e", "f"},
		TotalMatched:    2,
	}
	recs := recommendations(40, analysis, &types.ResumeRecord{})

	if len(recs) != 5 {
		t.Fatalf("Expected recommendations capped at 5, got %d: %v", len(recs), recs)
	}
	if !strings.Contains(recs[0], "below 60%") {
		t.Errorf("Expected score assessment first, got '%s'", recs[0])
	}
	if !strings.Contains(recs[1], "a, b, c") {
		t.Errorf("Expected top-3 missing keywords second, got '%s'", recs[1])
	}
}

func TestRecommendationsHighScore(t *testing.T) {
	analysis := types.KeywordMatchResult{TotalMatched: 12}
	record := fullRecord()
	record.Experience[0].Details = "Cut costs by 30% across 5+ teams"

	recs := recommendations(90, analysis, record)

	if len(recs) != 1 {
		t.Fatalf("Expected only the praise recommendation, got %v", recs)
	}
	if !strings.Contains(recs[0], "Excellent") {
		t.Errorf("Unexpected recommendation: '%s'", recs[0])
	}
}

func TestTruncatePromptTextRuneBoundary(t *testing.T) {
	tests := []struct {
		input    string
		n        int
		expected string
	}{
		{"plain ascii text", 5, "plain"},
		{"short", 100, "short"},
		{"ab世", 3, "ab"}, // cut would land inside the 3-byte rune
		{"café", 4, "caf"},
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
