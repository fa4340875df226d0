package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"resumetric/internal/types"
)

func sampleRecord() types.ResumeRecord {
	return types.ResumeRecord{
		Name:    "Jane Doe",
		Title:   "Senior Engineer",
		Email:   "jane@example.com",
		Phone:   "555-123-4567",
		Summary: "Backend engineer.",
		Skills:  []string{"Go", "SQL"},
		Experience: []types.ExperienceEntry{
			{Role: "Engineer", Company: "Acme", Period: "2019-2024", Details: "Built services."},
		},
		Education: []types.EducationEntry{
			{Degree: "BSc Computer Science", Institution: "State University"},
		},
		Projects:       []types.ProjectEntry{{Name: "pipeline", Link: "https://example.com"}},
		Certifications: []types.CertificationEntry{{Name: "CKA", Issuer: "CNCF"}},
	}
}

func TestRegistryJSONFallback(t *testing.T) {
	registry := NewFormatterRegistry()

	// Any type routes through the JSON formatter
	output, err := registry.Format(map[string]string{"key": "value"}, "json")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got error: %v", err)
	}
	if decoded["key"] != "value" {
		t.Errorf("Unexpected JSON content: %s", output)
	}
}

func TestRegistryUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()

	if _, err := registry.Format(sampleRecord(), "yaml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestRegistryTypedTextFormatting(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleRecord(), "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{
		"=== PARSED RESUME ===",
		"Name: Jane Doe",
		"Title: Senior Engineer",
		"Go, SQL",
		"1. Engineer at Acme (2019-2024)",
		"BSc Computer Science, State University",
		"CKA, CNCF",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected text output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestResumeMarkdownFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleRecord(), "markdown")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{
		"# Jane Doe",
		"**Senior Engineer**",
		"jane@example.com | 555-123-4567",
		"## Skills",
		"### Engineer - Acme",
		"[pipeline](https://example.com)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected markdown output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestScoreTextFormatter(t *testing.T) {
	result := types.AtsScoreResult{
		AtsScore:        74.5,
		MissingKeywords: []string{"kubernetes"},
		ScoreBreakdown: &types.ScoreBreakdown{
			KeywordMatch: 20.0,
			Completeness: 30.0,
			AIQuality:    24.5,
			KeywordDetails: types.KeywordDetails{
				Matched: 4,
				Total:   8,
			},
		},
		Recommendations: []string{"Add more keywords"},
	}

	output, err := (&ScoreTextFormatter{}).Format(result)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{
		"Score: 74.5/100",
		"Keyword Match:  20.0/40",
		"AI Quality:     24.5/30",
		"4/8 matched",
		"- kubernetes",
		"1. Add more keywords",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected score output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestScoreTextFormatterWithoutBreakdown(t *testing.T) {
	result := types.AtsScoreResult{AtsScore: 0, Recommendations: []string{"Add a job description"}}

	output, err := (&ScoreTextFormatter{}).Format(result)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if strings.Contains(output, "BREAKDOWN") {
		t.Errorf("Expected no breakdown section, got:\n%s", output)
	}
}

func TestBulletsAndRewriteFormatters(t *testing.T) {
	bullets := types.BulletsOutput{SectionType: "experience", Bullets: "- Led things"}
	output, err := (&BulletsTextFormatter{}).Format(bullets)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(output, "(EXPERIENCE)") || !strings.Contains(output, "- Led things") {
		t.Errorf("Unexpected bullets output:\n%s", output)
	}

	rewrite := types.RewriteOutput{Tone: "professional", Original: "old", Rewritten: "new"}
	output, err = (&RewriteTextFormatter{}).Format(rewrite)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(output, "new") || !strings.Contains(output, "=== ORIGINAL ===") {
		t.Errorf("Unexpected rewrite output:\n%s", output)
	}
}

func TestFormatterTypeMismatch(t *testing.T) {
	if _, err := (&ResumeTextFormatter{}).Format("wrong type"); err == nil {
		t.Error("Expected type mismatch error")
	}
	if _, err := (&ScoreMarkdownFormatter{}).Format(42); err == nil {
		t.Error("Expected type mismatch error")
	}
}
