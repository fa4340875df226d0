package scoring

import (
	"context"
	"fmt"
	"unicode/utf8"

	"resumetric/internal/ai"
	"resumetric/internal/config"
	"resumetric/internal/errors"
)

const (
	maxQualityJobChars    = 1000
	maxQualityResumeChars = 2000

	// defaultQualityScore is the 0-30 midpoint used when the model fails
	defaultQualityScore = 15.0
)

// aiQualityScore asks the model for three 0-10 sub-scores and their 0-30 sum.
// It never fails: any model error degrades to the midpoint default.
func aiQualityScore(ctx context.Context, client ai.ChatClient, cfg *config.OperationAIConfig, logger *errors.Logger, resumeText, jobDescription string) float64 {
	loaded := config.GetPromptsForOperation("score")
	userTemplate := ai.ResolvePrompt(
		loaded.UserPrompts.QualityScore,
		cfg.CustomPrompts.UserPrompts.QualityScore,
		ai.DefaultUserPrompts.QualityScore,
	)
	prompt := fmt.Sprintf(userTemplate,
		truncate(jobDescription, maxQualityJobChars),
		truncate(resumeText, maxQualityResumeChars))

	messages := ai.UserMessage(prompt)
	if *cfg.UseSystemPrompts {
		system := ai.ResolvePrompt(
			loaded.SystemPrompts.QualityScore,
			cfg.CustomPrompts.SystemPrompts.QualityScore,
			ai.DefaultSystemPrompts.QualityScore,
		)
		messages = ai.SystemAndUserMessage(system, prompt)
	}

	result, err := client.ChatJSON(ctx, messages, 0.1)
	if err != nil {
		logger.Warn("AI quality score failed, using midpoint default", "error", err.Error())
		return defaultQualityScore
	}

	total, ok := result["total"].(float64)
	if !ok {
		return defaultQualityScore
	}
	return total
}

// truncate caps s at n bytes, backing up so a multi-byte rune is never split
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
