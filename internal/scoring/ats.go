package scoring

import (
	"context"
	"regexp"
	"strings"

	"resumetric/internal/ai"
	"resumetric/internal/config"
	"resumetric/internal/errors"
	"resumetric/internal/keywords"
	"resumetric/internal/types"
)

// Scoring weights: 40% keyword match, 30% completeness, 30% AI quality
const (
	keywordWeight      = 40.0
	completenessWeight = 30.0
)

var achievementPattern = regexp.MustCompile(`\d+[%$]|\d+\+`)

// Scorer composes keyword, completeness, and AI quality scores into the
// final ATS result
type Scorer struct {
	keywords *keywords.Engine
	client   ai.ChatClient
	cfg      *config.OperationAIConfig
	logger   *errors.Logger
}

// NewScorer creates an ATS scorer for the score operation
func NewScorer(client ai.ChatClient, cfg *config.OperationAIConfig, logger *errors.Logger) *Scorer {
	return &Scorer{
		keywords: keywords.NewEngine(client, cfg, logger),
		client:   client,
		cfg:      cfg,
		logger:   logger,
	}
}

// Score runs the sequential hybrid scoring pipeline. It never returns an
// error: an empty job description yields an instructive zero result without
// any model call, and any internal failure degrades to a zero result with a
// retry recommendation.
func (s *Scorer) Score(ctx context.Context, resumeText, jobDescription string, record *types.ResumeRecord) types.AtsScoreResult {
	if strings.TrimSpace(jobDescription) == "" {
		return types.AtsScoreResult{
			AtsScore:        0,
			MissingKeywords: []string{},
			ScoreBreakdown:  &types.ScoreBreakdown{},
			Recommendations: []string{"Add a job description to calculate ATS score"},
		}
	}

	result, err := s.score(ctx, resumeText, jobDescription, record)
	if err != nil {
		s.logger.LogError(err, "ATS analysis failed, returning degraded result")
		return types.AtsScoreResult{
			AtsScore:        0,
			MissingKeywords: []string{},
			ScoreBreakdown:  &types.ScoreBreakdown{},
			Recommendations: []string{"Error calculating ATS score. Please try again."},
		}
	}
	return result
}

func (s *Scorer) score(ctx context.Context, resumeText, jobDescription string, record *types.ResumeRecord) (types.AtsScoreResult, error) {
	// Phase 1: hybrid keyword matching
	keywordAnalysis, err := s.keywords.Match(ctx, resumeText, jobDescription)
	if err != nil {
		return types.AtsScoreResult{}, err
	}
	keywordScore := keywordAnalysis.MatchPercentage / 100 * keywordWeight

	// Phase 2: completeness, with a coarse text-length fallback when no
	// parsed record is supplied
	var completenessScore float64
	if record != nil {
		completenessScore = Completeness(record).Percentage / 100 * completenessWeight
	} else if len(resumeText) > 500 {
		completenessScore = 15
	} else {
		completenessScore = 10
	}

	// Phase 3: AI qualitative analysis, already on a 0-30 scale
	aiScore := aiQualityScore(ctx, s.client, s.cfg, s.logger, resumeText, jobDescription)
	if err := ctx.Err(); err != nil {
		return types.AtsScoreResult{}, err
	}

	finalScore := round1(keywordScore + completenessScore + aiScore)
	if finalScore > 100 {
		finalScore = 100
	}

	return types.AtsScoreResult{
		AtsScore:        finalScore,
		MissingKeywords: keywordAnalysis.MissingKeywords,
		ScoreBreakdown: &types.ScoreBreakdown{
			KeywordMatch: round1(keywordScore),
			Completeness: round1(completenessScore),
			AIQuality:    round1(aiScore),
			KeywordDetails: types.KeywordDetails{
				Matched: keywordAnalysis.TotalMatched,
				Total:   keywordAnalysis.TotalJobKeywords,
			},
		},
		Recommendations: recommendations(finalScore, keywordAnalysis, record),
	}, nil
}

// recommendations emits at most 5 actionable items in fixed priority order
func recommendations(score float64, keywordAnalysis types.KeywordMatchResult, record *types.ResumeRecord) []string {
	recs := []string{}

	switch {
	case score < 60:
		recs = append(recs, "Your ATS score is below 60%. Significant improvements needed.")
	case score < 80:
		recs = append(recs, "Good start! A few improvements can boost your score above 80%.")
	default:
		recs = append(recs, "Excellent! Your resume is well-optimized for ATS.")
	}

	if len(keywordAnalysis.MissingKeywords) > 5 {
		topMissing := keywordAnalysis.MissingKeywords[:3]
		recs = append(recs, "Add these high-priority keywords: "+strings.Join(topMissing, ", "))
	}
	if keywordAnalysis.TotalMatched < 10 {
		recs = append(recs, "Include more relevant keywords from the job description")
	}

	if record != nil {
		if record.Summary == "" {
			recs = append(recs, "Add a professional summary at the top")
		}
		if len(record.Skills) < 5 {
			recs = append(recs, "List more technical skills relevant to the role")
		}
		if len(record.Experience) < 2 {
			recs = append(recs, "Add more work experience entries if applicable")
		}

		hasMetrics := false
		for _, exp := range record.Experience {
			if achievementPattern.MatchString(exp.Details) {
				hasMetrics = true
				break
			}
		}
		if !hasMetrics {
			recs = append(recs, "Add quantifiable achievements (numbers, percentages)")
		}
	}

	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}
