package types

// ResumeRecord is the canonical normalized resume structure.
// After validation every field is present, even if empty - downstream
// components may rely on that and never check for missing keys.
type ResumeRecord struct {
	Name           string               `json:"name"`
	Title          string               `json:"title"`
	Location       string               `json:"location"`
	Email          string               `json:"email"`
	Phone          string               `json:"phone"`
	Website        string               `json:"website"`
	Summary        string               `json:"summary"`
	Skills         []string             `json:"skills"`
	Experience     []ExperienceEntry    `json:"experience"`
	Education      []EducationEntry     `json:"education"`
	Projects       []ProjectEntry       `json:"projects"`
	Certifications []CertificationEntry `json:"certifications"`
}

// ExperienceEntry represents one work experience item
type ExperienceEntry struct {
	Role    string `json:"role"`
	Company string `json:"company"`
	Period  string `json:"period"`
	Details string `json:"details"`
}

// EducationEntry represents one education item
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Period      string `json:"period"`
}

// ProjectEntry represents one project item
type ProjectEntry struct {
	Name    string `json:"name"`
	Details string `json:"details"`
	Link    string `json:"link"`
}

// CertificationEntry represents one certification item
type CertificationEntry struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Link   string `json:"link"`
}

// SectionConfig describes generation constraints for one resume section type
type SectionConfig struct {
	MinBullets        int
	MaxBullets        int
	MinWordsPerBullet int
	MaxWordsPerBullet int
	Style             string
	RequiresMetrics   bool
	Example           string
}

// KeywordMatchResult holds the outcome of the hybrid keyword comparison
type KeywordMatchResult struct {
	MatchPercentage  float64  `json:"match_percentage"`
	MatchedKeywords  []string `json:"matched_keywords"`
	MissingKeywords  []string `json:"missing_keywords"`
	TotalJobKeywords int      `json:"total_job_keywords"`
	TotalMatched     int      `json:"total_matched"`
}

// CompletenessBreakdown holds per-category completeness points
type CompletenessBreakdown struct {
	ContactInfo int `json:"contact_info"`
	Summary     int `json:"summary"`
	Experience  int `json:"experience"`
	Education   int `json:"education"`
	Skills      int `json:"skills"`
	Additional  int `json:"additional"`
}

// CompletenessResult is the deterministic structural completeness score
type CompletenessResult struct {
	TotalScore int                   `json:"total_score"`
	MaxScore   int                   `json:"max_score"`
	Percentage float64               `json:"percentage"`
	Breakdown  CompletenessBreakdown `json:"breakdown"`
}

// KeywordDetails summarizes keyword counts inside a score breakdown
type KeywordDetails struct {
	Matched int `json:"matched"`
	Total   int `json:"total"`
}

// ScoreBreakdown details the three ATS score components
type ScoreBreakdown struct {
	KeywordMatch   float64        `json:"keywordMatch"`
	Completeness   float64        `json:"completeness"`
	AIQuality      float64        `json:"aiQuality"`
	KeywordDetails KeywordDetails `json:"keywordDetails"`
}

// AtsScoreResult is the composite ATS analysis output.
// ScoreBreakdown holds zero components when scoring was degraded to a
// safe default.
type AtsScoreResult struct {
	AtsScore        float64         `json:"atsScore"`
	MissingKeywords []string        `json:"missingKeywords"`
	ScoreBreakdown  *ScoreBreakdown `json:"scoreBreakdown"`
	Recommendations []string        `json:"recommendations"`
}

// BulletsOutput wraps a generated bullet block for formatting
type BulletsOutput struct {
	SectionType string `json:"sectionType"`
	Bullets     string `json:"bullets"`
}

// RewriteOutput wraps a rewrite result for formatting
type RewriteOutput struct {
	Tone      string `json:"tone"`
	Original  string `json:"original"`
	Rewritten string `json:"rewritten"`
}
