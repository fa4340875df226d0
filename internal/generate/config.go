package generate

import (
	"regexp"
	"slices"
	"strings"

	"resumetric/internal/types"
)

// SectionConfigs holds per-section shape and style constraints for bullet
// generation. Unknown section types fall back to "experience".
var SectionConfigs = map[string]types.SectionConfig{
	"experience": {
		MinBullets:        3,
		MaxBullets:        5,
		MinWordsPerBullet: 15,
		MaxWordsPerBullet: 35,
		Style:             "achievement-focused",
		RequiresMetrics:   true,
		Example:           "Led cross-functional team of 8 engineers to deliver microservices architecture, reducing API response time by 45% and cutting infrastructure costs by $120K annually",
	},
	"summary": {
		MinBullets:        2,
		MaxBullets:        3,
		MinWordsPerBullet: 20,
		MaxWordsPerBullet: 40,
		Style:             "value-proposition",
		RequiresMetrics:   false,
		Example:           "Results-driven software engineer with 5+ years building scalable cloud solutions, specializing in Python, AWS, and microservices architecture",
	},
	"projects": {
		MinBullets:        2,
		MaxBullets:        4,
		MinWordsPerBullet: 18,
		MaxWordsPerBullet: 38,
		Style:             "technical-showcase",
		RequiresMetrics:   true,
		Example:           "Built real-time data pipeline processing 2M+ events/day using Apache Kafka and Spark, achieving 99.9% reliability",
	},
	"skills": {
		MinBullets:        1,
		MaxBullets:        1,
		MinWordsPerBullet: 10,
		MaxWordsPerBullet: 50,
		Style:             "categorized-list",
		RequiresMetrics:   false,
		Example:           "Languages: Python, JavaScript, Go | Frameworks: React, Django, FastAPI | Cloud: AWS, Docker, Kubernetes",
	},
}

// SectionConfigFor resolves a section type to its configuration, defaulting
// to the experience section
func SectionConfigFor(sectionType string) types.SectionConfig {
	if cfg, ok := SectionConfigs[sectionType]; ok {
		return cfg
	}
	return SectionConfigs["experience"]
}

// SectionTypes returns the known section types in sorted order
func SectionTypes() []string {
	names := make([]string, 0, len(SectionConfigs))
	for name := range SectionConfigs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var strongVerbs = map[string]struct{}{
	"achieved": {}, "architected": {}, "automated": {}, "built": {},
	"created": {}, "delivered": {}, "deployed": {}, "designed": {},
	"developed": {}, "drove": {}, "enabled": {}, "engineered": {},
	"enhanced": {}, "established": {}, "executed": {}, "generated": {},
	"implemented": {}, "improved": {}, "increased": {}, "launched": {},
	"led": {}, "managed": {}, "optimized": {}, "orchestrated": {},
	"pioneered": {}, "reduced": {}, "resolved": {}, "scaled": {},
	"spearheaded": {}, "streamlined": {}, "transformed": {}, "accelerated": {},
	"collaborated": {}, "coordinated": {}, "directed": {}, "facilitated": {},
	"mentored": {}, "supervised": {},
}

// StartsWithStrongVerb reports whether the first word of text is a
// recognized action verb
func StartsWithStrongVerb(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	_, ok := strongVerbs[strings.ToLower(fields[0])]
	return ok
}

var metricPattern = regexp.MustCompile(`\d+[%$KMB+]|\d+\+|\d+x|\d+ [a-z]+`)
