// Package scoring implements the deterministic completeness rubric and the
// composite ATS score orchestration.
package scoring

import (
	"math"

	"resumetric/internal/types"
)

// completenessMax is the fixed per-category maximum, summing to 100
const completenessMax = 100

// Completeness applies the fixed structural rubric to a parsed record.
// The result is reproducible from the record alone.
func Completeness(record *types.ResumeRecord) types.CompletenessResult {
	var breakdown types.CompletenessBreakdown

	// Contact information: 5 points each for name, email, phone
	if record.Name != "" {
		breakdown.ContactInfo += 5
	}
	if record.Email != "" {
		breakdown.ContactInfo += 5
	}
	if record.Phone != "" {
		breakdown.ContactInfo += 5
	}

	// Summary: full points only for a substantive one
	switch {
	case len(record.Summary) > 50:
		breakdown.Summary = 10
	case len(record.Summary) > 20:
		breakdown.Summary = 5
	}

	// Experience: entry count plus detail depth
	switch {
	case len(record.Experience) >= 3:
		breakdown.Experience += 15
	case len(record.Experience) >= 1:
		breakdown.Experience += 10
	}
	detailed := 0
	for _, exp := range record.Experience {
		if len(exp.Details) > 100 {
			detailed++
		}
	}
	switch {
	case detailed >= 2:
		breakdown.Experience += 20
	case detailed >= 1:
		breakdown.Experience += 10
	}

	if len(record.Education) >= 1 {
		breakdown.Education = 15
	}

	switch {
	case len(record.Skills) >= 10:
		breakdown.Skills = 15
	case len(record.Skills) >= 5:
		breakdown.Skills = 10
	case len(record.Skills) >= 1:
		breakdown.Skills = 5
	}

	// Additional sections: projects and certifications
	switch {
	case len(record.Projects) >= 2:
		breakdown.Additional += 5
	case len(record.Projects) >= 1:
		breakdown.Additional += 3
	}
	switch {
	case len(record.Certifications) >= 2:
		breakdown.Additional += 5
	case len(record.Certifications) >= 1:
		breakdown.Additional += 2
	}

	total := breakdown.ContactInfo + breakdown.Summary + breakdown.Experience +
		breakdown.Education + breakdown.Skills + breakdown.Additional

	return types.CompletenessResult{
		TotalScore: total,
		MaxScore:   completenessMax,
		Percentage: round1(float64(total) / completenessMax * 100),
		Breakdown:  breakdown,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
