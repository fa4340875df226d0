package generate

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"resumetric/internal/ai"
	"resumetric/internal/config"
	"resumetric/internal/errors"
)

// fakeChatClient replays queued ChatText responses in order
type fakeChatClient struct {
	responses []string
	err       error
	calls     int
}

func (f *fakeChatClient) ChatText(_ context.Context, _ []ai.Message, _ float32) (string, error) {
	f.calls++
	if len(f.responses) == 0 {
		if f.err != nil {
			return "", f.err
		}
		return "", nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeChatClient) ChatJSON(_ context.Context, _ []ai.Message, _ float32) (map[string]any, error) {
	return nil, f.err
}

func testConfig() *config.OperationAIConfig {
	useSystem := true
	return &config.OperationAIConfig{UseSystemPrompts: &useSystem}
}

func testLogger() *errors.Logger {
	return errors.NewLogger(slog.LevelError)
}

// goodBullets is model output that passes the experience quality gate
const goodBullets = `- Led migration of payment services to Kubernetes reducing deploy time by 60% across 4 teams
- Architected event-driven order pipeline processing 2M+ daily events with 99.9% reliability targets met under load
- Optimized PostgreSQL query plans cutting p99 latency by 45% and saving $30K annually in compute`

func TestSectionConfigFor(t *testing.T) {
	if cfg := SectionConfigFor("summary"); cfg.Style != "value-proposition" {
		t.Errorf("Expected summary config, got style '%s'", cfg.Style)
	}
	// Unknown types fall back to experience
	if cfg := SectionConfigFor("hobbies"); cfg.Style != "achievement-focused" {
		t.Errorf("Expected experience fallback for unknown section, got '%s'", cfg.Style)
	}
}

func TestSectionTypes(t *testing.T) {
	expected := []string{"experience", "projects", "skills", "summary"}
	if got := SectionTypes(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected sorted section types %v, got %v", expected, got)
	}
}

func TestStartsWithStrongVerb(t *testing.T) {
	tests := []struct {
		text     string
		expected bool
	}{
		{"Led a team of engineers", true},
		{"architected the platform", true},
		{"Helped with various tasks", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := StartsWithStrongVerb(tt.text); got != tt.expected {
			t.Errorf("StartsWithStrongVerb(%q) = %v, want %v", tt.text, got, tt.expected)
		}
	}
}

func TestValidateAndFormatStripsMarkers(t *testing.T) {
	section := SectionConfigFor("experience")
	input := "```\n" +
		"* Led payment platform rewrite serving 500K users with improved latency and observability across regions\n" +
		"1. Architected streaming ingestion layer processing 1M+ events daily with strong delivery guarantees in place\n" +
		"```"

	result := validateAndFormat(input, section)

	lines := strings.Split(result, "\n")
	for _, line := range lines {
		if !strings.HasPrefix(line, "- ") {
			t.Errorf("Expected hyphen-prefixed bullet, got '%s'", line)
		}
		if strings.Contains(line, "```") || strings.Contains(line, "1.") || strings.Contains(line, "* ") {
			t.Errorf("Expected markers stripped, got '%s'", line)
		}
	}
}

func TestValidateAndFormatPadsShortOutput(t *testing.T) {
	section := SectionConfigFor("experience")

	result := validateAndFormat("- Led one single bullet with enough words to pass the minimum length check", section)

	lines := strings.Split(result, "\n")
	if len(lines) != section.MinBullets {
		t.Fatalf("Expected padding to %d bullets, got %d: %v", section.MinBullets, len(lines), lines)
	}
	if !strings.Contains(result, fillerBullet) {
		t.Error("Expected filler bullets in padded output")
	}
}

func TestValidateAndFormatTruncatesLongOutput(t *testing.T) {
	section := SectionConfigFor("experience")
	var lines []string
	for i := 0; i < 8; i++ {
		lines = append(lines, fmt.Sprintf("- Delivered feature number %d with measurable impact across several teams and strong stakeholder feedback", i))
	}

	result := validateAndFormat(strings.Join(lines, "\n"), section)

	got := strings.Split(result, "\n")
	if len(got) != section.MaxBullets {
		t.Errorf("Expected output capped at %d bullets, got %d", section.MaxBullets, len(got))
	}
}

func TestValidateAndFormatPrependsVerb(t *testing.T) {
	section := SectionConfigFor("experience")

	result := validateAndFormat("- the checkout flow redesign for mobile users across three markets last quarter", section)

	if !strings.Contains(result, "- Delivered the checkout flow") {
		t.Errorf("Expected weak bullet to get a strong verb prefix, got '%s'", result)
	}
}

func TestValidateAndFormatDropsTooShortLines(t *testing.T) {
	section := SectionConfigFor("experience")

	result := validateAndFormat("- too short\n- Led platform observability rollout covering twelve services with alerting and dashboards for every team", section)

	if strings.Contains(result, "too short") {
		t.Errorf("Expected sub-minimum line dropped, got '%s'", result)
	}
}

func TestAssessQuality(t *testing.T) {
	section := SectionConfigFor("experience")

	if score := assessQuality(goodBullets, section); score < 0.9 {
		t.Errorf("Expected high quality score for strong bullets, got %v", score)
	}

	weak := "- worked on some things for a while doing assorted tasks around the office every single day"
	if score := assessQuality(weak, section); score >= 0.6 {
		t.Errorf("Expected weak bullets below threshold, got %v", score)
	}

	if score := assessQuality("", section); score != 0.0 {
		t.Errorf("Expected zero score for empty input, got %v", score)
	}
}

func TestBulletsSuccess(t *testing.T) {
	client := &fakeChatClient{responses: []string{goodBullets}}
	gen := NewGenerator(client, testConfig(), testLogger())

	output := gen.Bullets(context.Background(), "payments team lead", []string{"kubernetes"}, "experience")

	if output.SectionType != "experience" {
		t.Errorf("Expected section type preserved, got '%s'", output.SectionType)
	}
	if client.calls != 1 {
		t.Errorf("Expected single AI call for good bullets, got %d", client.calls)
	}
	if !strings.HasPrefix(output.Bullets, "- Led migration") {
		t.Errorf("Unexpected bullets: '%s'", output.Bullets)
	}
}

func TestBulletsRegeneratesWeakExperience(t *testing.T) {
	weak := "- worked on some things for a while doing assorted tasks around the office every single day"
	client := &fakeChatClient{responses: []string{weak, goodBullets}}
	gen := NewGenerator(client, testConfig(), testLogger())

	output := gen.Bullets(context.Background(), "payments team lead", nil, "experience")

	if client.calls != 2 {
		t.Errorf("Expected regeneration pass for weak bullets, got %d calls", client.calls)
	}
	if !strings.Contains(output.Bullets, "Led migration") {
		t.Errorf("Expected regenerated bullets, got '%s'", output.Bullets)
	}
}

func TestBulletsFallbackOnRegenerationError(t *testing.T) {
	weak := "- worked on some things for a while doing assorted tasks around the office every single day"
	client := &fakeChatClient{responses: []string{weak}, err: fmt.Errorf("provider down")}
	gen := NewGenerator(client, testConfig(), testLogger())

	output := gen.Bullets(context.Background(), "payments team lead", nil, "experience")

	if client.calls != 2 {
		t.Errorf("Expected a regeneration attempt, got %d calls", client.calls)
	}
	if strings.Contains(output.Bullets, "worked on some things") {
		t.Errorf("Expected weak first attempt discarded, got '%s'", output.Bullets)
	}
	if !strings.Contains(output.Bullets, "payments team lead") {
		t.Errorf("Expected fallback bullets referencing input, got '%s'", output.Bullets)
	}
}

func TestBulletsNoRegenerationForSummary(t *testing.T) {
	weak := "- a person who has spent time doing software related activities in several workplaces over many years"
	client := &fakeChatClient{responses: []string{weak, goodBullets}}
	gen := NewGenerator(client, testConfig(), testLogger())

	gen.Bullets(context.Background(), "about me", nil, "summary")

	if client.calls != 1 {
		t.Errorf("Expected no regeneration outside experience section, got %d calls", client.calls)
	}
}

func TestBulletsFallbackOnError(t *testing.T) {
	client := &fakeChatClient{err: fmt.Errorf("provider down")}
	gen := NewGenerator(client, testConfig(), testLogger())

	output := gen.Bullets(context.Background(), "backend work", nil, "experience")

	if !strings.Contains(output.Bullets, "backend work") {
		t.Errorf("Expected fallback bullets referencing input, got '%s'", output.Bullets)
	}
	if !strings.HasPrefix(output.Bullets, "- ") {
		t.Errorf("Expected fallback bullets formatted as list, got '%s'", output.Bullets)
	}
}

func TestRewriteSuccess(t *testing.T) {
	client := &fakeChatClient{responses: []string{"  Polished text.  "}}
	rw := NewRewriter(client, testConfig(), testLogger())

	output := rw.Rewrite(context.Background(), "rough text about my job", "professional", nil)

	if output.Rewritten != "Polished text." {
		t.Errorf("Expected trimmed rewrite, got '%s'", output.Rewritten)
	}
	if output.Original != "rough text about my job" {
		t.Errorf("Expected original preserved, got '%s'", output.Original)
	}
	if output.Tone != "professional" {
		t.Errorf("Expected tone echoed, got '%s'", output.Tone)
	}
}

func TestRewriteErrorReturnsOriginal(t *testing.T) {
	client := &fakeChatClient{err: fmt.Errorf("provider down")}
	rw := NewRewriter(client, testConfig(), testLogger())

	output := rw.Rewrite(context.Background(), "original text", "concise", nil)

	if output.Rewritten != "original text" {
		t.Errorf("Expected original text on failure, got '%s'", output.Rewritten)
	}
}

func TestRewriteTruncatesRunawayResponse(t *testing.T) {
	runaway := "One sentence here. Two sentences here. Three sentences here. Four sentences here. Five sentences here"
	client := &fakeChatClient{responses: []string{runaway}}
	rw := NewRewriter(client, testConfig(), testLogger())

	output := rw.Rewrite(context.Background(), "short", "professional", nil)

	expected := "One sentence here. Two sentences here. Three sentences here."
	if output.Rewritten != expected {
		t.Errorf("Expected runaway response cut to three sentences, got '%s'", output.Rewritten)
	}
}
