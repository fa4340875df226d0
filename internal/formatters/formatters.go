package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumetric/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ResumeRecord", &ResumeTextFormatter{})
	registry.RegisterFormatter("markdown", "ResumeRecord", &ResumeMarkdownFormatter{})
	registry.RegisterFormatter("text", "AtsScoreResult", &ScoreTextFormatter{})
	registry.RegisterFormatter("markdown", "AtsScoreResult", &ScoreMarkdownFormatter{})
	registry.RegisterFormatter("text", "BulletsOutput", &BulletsTextFormatter{})
	registry.RegisterFormatter("markdown", "BulletsOutput", &BulletsMarkdownFormatter{})
	registry.RegisterFormatter("text", "RewriteOutput", &RewriteTextFormatter{})
	registry.RegisterFormatter("markdown", "RewriteOutput", &RewriteMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ResumeRecord:
		return "ResumeRecord"
	case types.AtsScoreResult:
		return "AtsScoreResult"
	case types.BulletsOutput:
		return "BulletsOutput"
	case types.RewriteOutput:
		return "RewriteOutput"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ResumeTextFormatter handles text formatting for parsed resumes
type ResumeTextFormatter struct{}

func (rtf *ResumeTextFormatter) Format(data any) (string, error) {
	record, ok := data.(types.ResumeRecord)
	if !ok {
		return "", fmt.Errorf("expected ResumeRecord, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== PARSED RESUME ===\n\n")
	output.WriteString(fmt.Sprintf("Name: %s\n", record.Name))
	if record.Title != "" {
		output.WriteString(fmt.Sprintf("Title: %s\n", record.Title))
	}
	if record.Location != "" {
		output.WriteString(fmt.Sprintf("Location: %s\n", record.Location))
	}
	if record.Email != "" {
		output.WriteString(fmt.Sprintf("Email: %s\n", record.Email))
	}
	if record.Phone != "" {
		output.WriteString(fmt.Sprintf("Phone: %s\n", record.Phone))
	}
	if record.Website != "" {
		output.WriteString(fmt.Sprintf("Website: %s\n", record.Website))
	}

	if record.Summary != "" {
		output.WriteString("\n=== SUMMARY ===\n")
		output.WriteString(record.Summary)
		output.WriteString("\n")
	}

	if len(record.Skills) > 0 {
		output.WriteString("\n=== SKILLS ===\n")
		output.WriteString(strings.Join(record.Skills, ", "))
		output.WriteString("\n")
	}

	if len(record.Experience) > 0 {
		output.WriteString("\n=== EXPERIENCE ===\n\n")
		for i, exp := range record.Experience {
			output.WriteString(fmt.Sprintf("%d. %s", i+1, exp.Role))
			if exp.Company != "" {
				output.WriteString(" at " + exp.Company)
			}
			if exp.Period != "" {
				output.WriteString(" (" + exp.Period + ")")
			}
			output.WriteString("\n")
			if exp.Details != "" {
				output.WriteString("   " + exp.Details + "\n")
			}
			output.WriteString("\n")
		}
	}

	if len(record.Education) > 0 {
		output.WriteString("=== EDUCATION ===\n\n")
		for _, edu := range record.Education {
			output.WriteString("- " + edu.Degree)
			if edu.Institution != "" {
				output.WriteString(", " + edu.Institution)
			}
			if edu.Period != "" {
				output.WriteString(" (" + edu.Period + ")")
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	if len(record.Projects) > 0 {
		output.WriteString("=== PROJECTS ===\n\n")
		for _, proj := range record.Projects {
			output.WriteString("- " + proj.Name)
			if proj.Link != "" {
				output.WriteString(" (" + proj.Link + ")")
			}
			output.WriteString("\n")
			if proj.Details != "" {
				output.WriteString("  " + proj.Details + "\n")
			}
		}
		output.WriteString("\n")
	}

	if len(record.Certifications) > 0 {
		output.WriteString("=== CERTIFICATIONS ===\n\n")
		for _, cert := range record.Certifications {
			output.WriteString("- " + cert.Name)
			if cert.Issuer != "" {
				output.WriteString(", " + cert.Issuer)
			}
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}

func (rtf *ResumeTextFormatter) SupportedType() string {
	return "ResumeRecord"
}

// ResumeMarkdownFormatter handles markdown formatting for parsed resumes
type ResumeMarkdownFormatter struct{}

func (rmf *ResumeMarkdownFormatter) Format(data any) (string, error) {
	record, ok := data.(types.ResumeRecord)
	if !ok {
		return "", fmt.Errorf("expected ResumeRecord, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# " + record.Name + "\n\n")
	if record.Title != "" {
		output.WriteString("**" + record.Title + "**\n\n")
	}

	var contact []string
	if record.Location != "" {
		contact = append(contact, record.Location)
	}
	if record.Email != "" {
		contact = append(contact, record.Email)
	}
	if record.Phone != "" {
		contact = append(contact, record.Phone)
	}
	if record.Website != "" {
		contact = append(contact, record.Website)
	}
	if len(contact) > 0 {
		output.WriteString(strings.Join(contact, " | "))
		output.WriteString("\n\n")
	}

	if record.Summary != "" {
		output.WriteString("## Summary\n\n")
		output.WriteString(record.Summary)
		output.WriteString("\n\n")
	}

	if len(record.Skills) > 0 {
		output.WriteString("## Skills\n\n")
		output.WriteString(strings.Join(record.Skills, ", "))
		output.WriteString("\n\n")
	}

	if len(record.Experience) > 0 {
		output.WriteString("## Experience\n\n")
		for _, exp := range record.Experience {
			output.WriteString("### " + exp.Role)
			if exp.Company != "" {
				output.WriteString(" - " + exp.Company)
			}
			output.WriteString("\n\n")
			if exp.Period != "" {
				output.WriteString("*" + exp.Period + "*\n\n")
			}
			if exp.Details != "" {
				output.WriteString(exp.Details + "\n\n")
			}
		}
	}

	if len(record.Education) > 0 {
		output.WriteString("## Education\n\n")
		for _, edu := range record.Education {
			output.WriteString("- **" + edu.Degree + "**")
			if edu.Institution != "" {
				output.WriteString(", " + edu.Institution)
			}
			if edu.Period != "" {
				output.WriteString(" (" + edu.Period + ")")
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	if len(record.Projects) > 0 {
		output.WriteString("## Projects\n\n")
		for _, proj := range record.Projects {
			if proj.Link != "" {
				output.WriteString(fmt.Sprintf("- [%s](%s)", proj.Name, proj.Link))
			} else {
				output.WriteString("- **" + proj.Name + "**")
			}
			if proj.Details != "" {
				output.WriteString(": " + proj.Details)
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	if len(record.Certifications) > 0 {
		output.WriteString("## Certifications\n\n")
		for _, cert := range record.Certifications {
			output.WriteString("- " + cert.Name)
			if cert.Issuer != "" {
				output.WriteString(", " + cert.Issuer)
			}
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}

func (rmf *ResumeMarkdownFormatter) SupportedType() string {
	return "ResumeRecord"
}

// ScoreTextFormatter handles text formatting for ATS score results
type ScoreTextFormatter struct{}

func (stf *ScoreTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AtsScoreResult)
	if !ok {
		return "", fmt.Errorf("expected AtsScoreResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS SCORE ===\n\n")
	output.WriteString(fmt.Sprintf("Score: %.1f/100\n\n", result.AtsScore))

	if result.ScoreBreakdown != nil {
		output.WriteString("=== BREAKDOWN ===\n")
		output.WriteString(fmt.Sprintf("Keyword Match:  %.1f/40\n", result.ScoreBreakdown.KeywordMatch))
		output.WriteString(fmt.Sprintf("Completeness:   %.1f/30\n", result.ScoreBreakdown.Completeness))
		output.WriteString(fmt.Sprintf("AI Quality:     %.1f/30\n", result.ScoreBreakdown.AIQuality))
		output.WriteString(fmt.Sprintf("Keywords:       %d/%d matched\n\n",
			result.ScoreBreakdown.KeywordDetails.Matched,
			result.ScoreBreakdown.KeywordDetails.Total))
	}

	if len(result.MissingKeywords) > 0 {
		output.WriteString("=== MISSING KEYWORDS ===\n")
		for _, kw := range result.MissingKeywords {
			output.WriteString("- " + kw + "\n")
		}
		output.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		output.WriteString("=== RECOMMENDATIONS ===\n")
		for i, rec := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
	}

	return output.String(), nil
}

func (stf *ScoreTextFormatter) SupportedType() string {
	return "AtsScoreResult"
}

// ScoreMarkdownFormatter handles markdown formatting for ATS score results
type ScoreMarkdownFormatter struct{}

func (smf *ScoreMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AtsScoreResult)
	if !ok {
		return "", fmt.Errorf("expected AtsScoreResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Score\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %.1f/100\n\n", result.AtsScore))

	if result.ScoreBreakdown != nil {
		output.WriteString("## Breakdown\n\n")
		output.WriteString("| Component | Score |\n")
		output.WriteString("|-----------|-------|\n")
		output.WriteString(fmt.Sprintf("| Keyword Match | %.1f/40 |\n", result.ScoreBreakdown.KeywordMatch))
		output.WriteString(fmt.Sprintf("| Completeness | %.1f/30 |\n", result.ScoreBreakdown.Completeness))
		output.WriteString(fmt.Sprintf("| AI Quality | %.1f/30 |\n", result.ScoreBreakdown.AIQuality))
		output.WriteString(fmt.Sprintf("\n**Keywords matched:** %d/%d\n\n",
			result.ScoreBreakdown.KeywordDetails.Matched,
			result.ScoreBreakdown.KeywordDetails.Total))
	}

	if len(result.MissingKeywords) > 0 {
		output.WriteString("## Missing Keywords\n\n")
		for _, kw := range result.MissingKeywords {
			output.WriteString("- " + kw + "\n")
		}
		output.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		output.WriteString("## Recommendations\n\n")
		for i, rec := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
	}

	return output.String(), nil
}

func (smf *ScoreMarkdownFormatter) SupportedType() string {
	return "AtsScoreResult"
}

// BulletsTextFormatter handles text formatting for generated bullets
type BulletsTextFormatter struct{}

func (btf *BulletsTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.BulletsOutput)
	if !ok {
		return "", fmt.Errorf("expected BulletsOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("=== GENERATED BULLETS (%s) ===\n\n", strings.ToUpper(result.SectionType)))
	output.WriteString(result.Bullets)
	output.WriteString("\n")

	return output.String(), nil
}

func (btf *BulletsTextFormatter) SupportedType() string {
	return "BulletsOutput"
}

// BulletsMarkdownFormatter handles markdown formatting for generated bullets
type BulletsMarkdownFormatter struct{}

func (bmf *BulletsMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.BulletsOutput)
	if !ok {
		return "", fmt.Errorf("expected BulletsOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("# Generated Bullets (%s)\n\n", result.SectionType))
	output.WriteString(result.Bullets)
	output.WriteString("\n")

	return output.String(), nil
}

func (bmf *BulletsMarkdownFormatter) SupportedType() string {
	return "BulletsOutput"
}

// RewriteTextFormatter handles text formatting for rewrite results
type RewriteTextFormatter struct{}

func (rtf *RewriteTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RewriteOutput)
	if !ok {
		return "", fmt.Errorf("expected RewriteOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("=== REWRITTEN TEXT (%s) ===\n\n", strings.ToUpper(result.Tone)))
	output.WriteString(result.Rewritten)
	output.WriteString("\n\n=== ORIGINAL ===\n\n")
	output.WriteString(result.Original)
	output.WriteString("\n")

	return output.String(), nil
}

func (rtf *RewriteTextFormatter) SupportedType() string {
	return "RewriteOutput"
}

// RewriteMarkdownFormatter handles markdown formatting for rewrite results
type RewriteMarkdownFormatter struct{}

func (rmf *RewriteMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RewriteOutput)
	if !ok {
		return "", fmt.Errorf("expected RewriteOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("# Rewritten Text (%s)\n\n", result.Tone))
	output.WriteString(result.Rewritten)
	output.WriteString("\n\n## Original\n\n")
	output.WriteString(result.Original)
	output.WriteString("\n")

	return output.String(), nil
}

func (rmf *RewriteMarkdownFormatter) SupportedType() string {
	return "RewriteOutput"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
