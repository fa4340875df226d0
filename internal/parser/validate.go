package parser

import (
	"strings"

	"resumetric/internal/types"
)

// Normalize coerces an untrusted AI-parsed object into the canonical record.
// Every field of the result is present even if empty, top-level strings are
// trimmed, non-sequence values for sequence fields become empty sequences,
// and entry sub-fields are backfilled with empty strings. Entries are never
// dropped or reordered.
func Normalize(data map[string]any) types.ResumeRecord {
	record := types.ResumeRecord{
		Name:           cleanString(data["name"]),
		Title:          cleanString(data["title"]),
		Location:       cleanString(data["location"]),
		Email:          cleanString(data["email"]),
		Phone:          cleanString(data["phone"]),
		Website:        cleanString(data["website"]),
		Summary:        cleanString(data["summary"]),
		Skills:         []string{},
		Experience:     []types.ExperienceEntry{},
		Education:      []types.EducationEntry{},
		Projects:       []types.ProjectEntry{},
		Certifications: []types.CertificationEntry{},
	}

	for _, item := range asSlice(data["skills"]) {
		if s, ok := item.(string); ok {
			record.Skills = append(record.Skills, s)
		}
	}

	for _, item := range asSlice(data["experience"]) {
		entry := asMap(item)
		record.Experience = append(record.Experience, types.ExperienceEntry{
			Role:    entryString(entry, "role"),
			Company: entryString(entry, "company"),
			Period:  entryString(entry, "period"),
			Details: entryString(entry, "details"),
		})
	}

	for _, item := range asSlice(data["education"]) {
		entry := asMap(item)
		record.Education = append(record.Education, types.EducationEntry{
			Degree:      entryString(entry, "degree"),
			Institution: entryString(entry, "institution"),
			Period:      entryString(entry, "period"),
		})
	}

	for _, item := range asSlice(data["projects"]) {
		entry := asMap(item)
		record.Projects = append(record.Projects, types.ProjectEntry{
			Name:    entryString(entry, "name"),
			Details: entryString(entry, "details"),
			Link:    entryString(entry, "link"),
		})
	}

	for _, item := range asSlice(data["certifications"]) {
		entry := asMap(item)
		record.Certifications = append(record.Certifications, types.CertificationEntry{
			Name:   entryString(entry, "name"),
			Issuer: entryString(entry, "issuer"),
			Link:   entryString(entry, "link"),
		})
	}

	return record
}

func cleanString(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func entryString(entry map[string]any, key string) string {
	if s, ok := entry[key].(string); ok {
		return s
	}
	return ""
}
