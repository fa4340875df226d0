package parser

import (
	"regexp"
	"strings"

	"resumetric/internal/types"
)

// Section-header keyword groups. A whole line consisting solely of one of
// these (plus optional trailing punctuation) is a section boundary.
var sectionForKeyword = map[string]string{
	"summary":                   "summary",
	"objective":                 "summary",
	"profile":                   "summary",
	"skills":                    "skills",
	"technical skills":          "skills",
	"technologies":              "skills",
	"experience":                "experience",
	"work history":              "experience",
	"employment":                "experience",
	"education":                 "education",
	"academic background":       "education",
	"projects":                  "projects",
	"certifications":            "certifications",
	"licenses & certifications": "certifications",
}

// Longer alternatives first so "technical skills" wins over "skills"
var sectionHeaderPattern = regexp.MustCompile(
	`(?mi)^(licenses & certifications|technical skills|academic background|work history|certifications|technologies|experience|employment|objective|education|projects|summary|profile|skills)[ \t:.]*$`)

var (
	emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[\s.-]?)?(\(?\d{3}\)?[\s.-]?)?[\d\s.-]{7,15}`)
)

// findEmail returns the first email-shaped token in a block of text
func findEmail(text string) string {
	return emailPattern.FindString(text)
}

// findPhone returns the first phone-shaped token in a block of text
func findPhone(text string) string {
	return strings.TrimSpace(phonePattern.FindString(text))
}

// ParseTier1 attempts a fast rule-based parse. It reports false when the text
// has fewer than two recognizable section boundaries or when the contact
// header yields no name or email - the caller then escalates to the AI parser.
func ParseTier1(text string) (*types.ResumeRecord, bool) {
	matches := sectionHeaderPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) < 2 {
		return nil, false
	}

	sections := make(map[string]string)
	for i, m := range matches {
		keyword := strings.ToLower(strings.TrimSpace(text[m[2]:m[3]]))
		name, ok := sectionForKeyword[keyword]
		if !ok {
			continue
		}

		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections[name] = strings.TrimSpace(text[start:end])
	}

	header := strings.TrimSpace(text[:matches[0][0]])
	headerLines := strings.Split(header, "\n")

	record := &types.ResumeRecord{
		Name:           strings.TrimSpace(headerLines[0]),
		Email:          findEmail(header),
		Phone:          findPhone(header),
		Summary:        sections["summary"],
		Skills:         splitNonEmptyLines(sections["skills"]),
		Experience:     []types.ExperienceEntry{},
		Education:      []types.EducationEntry{},
		Projects:       []types.ProjectEntry{},
		Certifications: []types.CertificationEntry{},
	}
	if len(headerLines) > 1 {
		record.Title = strings.TrimSpace(headerLines[1])
	}

	// Entry-level decomposition of experience/education/projects is
	// deliberately left to the AI parser.
	if record.Name == "" || record.Email == "" {
		return nil, false
	}
	return record, true
}

// splitNonEmptyLines splits section content into trimmed non-empty lines
func splitNonEmptyLines(content string) []string {
	result := []string{}
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
