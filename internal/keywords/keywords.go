// Package keywords implements the hybrid keyword engine: AI-derived job
// description keywords matched against rule-derived resume keywords.
package keywords

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"resumetric/internal/ai"
	"resumetric/internal/config"
	"resumetric/internal/errors"
	"resumetric/internal/types"
)

// maxJobTextChars bounds the job description embedded in the extraction prompt
const maxJobTextChars = 4000

var nonWordChars = regexp.MustCompile(`[^\w\s.]`)

// resumeStopWords is the broader stop list used for resume tokenization
var resumeStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"as": {}, "i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {},
	"they": {},
}

// fallbackStopWords is the smaller stop list for the deterministic job
// description fallback extractor
var fallbackStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "in": {}, "on": {},
	"for": {}, "with": {}, "is": {}, "of": {},
}

// Engine extracts and compares keyword sets
type Engine struct {
	client ai.ChatClient
	cfg    *config.OperationAIConfig
	logger *errors.Logger
}

// NewEngine creates a keyword engine backed by the score operation's client
func NewEngine(client ai.ChatClient, cfg *config.OperationAIConfig, logger *errors.Logger) *Engine {
	return &Engine{client: client, cfg: cfg, logger: logger}
}

// Match reconciles job and resume keyword sets into one comparable result.
// It only fails when the context is done; AI extraction failures degrade to
// the deterministic fallback instead.
func (e *Engine) Match(ctx context.Context, resumeText, jobDescription string) (types.KeywordMatchResult, error) {
	jobKeywords, err := e.JobKeywords(ctx, jobDescription)
	if err != nil {
		return types.KeywordMatchResult{}, err
	}
	resumeKeywords := ResumeKeywords(resumeText)

	matched := []string{}
	missing := []string{}
	for kw := range jobKeywords {
		if _, ok := resumeKeywords[kw]; ok {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)
	if len(missing) > 15 {
		missing = missing[:15]
	}

	var matchPercentage float64
	switch {
	case len(jobKeywords) == 0 && len(resumeKeywords) > 0:
		matchPercentage = 100
	case len(jobKeywords) == 0:
		matchPercentage = 0
	default:
		matchPercentage = round1(float64(len(matched)) / float64(len(jobKeywords)) * 100)
	}

	return types.KeywordMatchResult{
		MatchPercentage:  matchPercentage,
		MatchedKeywords:  matched,
		MissingKeywords:  missing,
		TotalJobKeywords: len(jobKeywords),
		TotalMatched:     len(matched),
	}, nil
}

// JobKeywords extracts 20-30 salient terms from a job description via the
// model, degrading to rule-based extraction on any AI failure
func (e *Engine) JobKeywords(ctx context.Context, text string) (map[string]struct{}, error) {
	if strings.TrimSpace(text) == "" {
		return map[string]struct{}{}, nil
	}

	loaded := config.GetPromptsForOperation("score")
	userTemplate := ai.ResolvePrompt(
		loaded.UserPrompts.JobKeywords,
		e.cfg.CustomPrompts.UserPrompts.JobKeywords,
		ai.DefaultUserPrompts.JobKeywords,
	)
	prompt := fmt.Sprintf(userTemplate, truncate(text, maxJobTextChars))

	messages := ai.UserMessage(prompt)
	if *e.cfg.UseSystemPrompts {
		system := ai.ResolvePrompt(
			loaded.SystemPrompts.JobKeywords,
			e.cfg.CustomPrompts.SystemPrompts.JobKeywords,
			ai.DefaultSystemPrompts.JobKeywords,
		)
		messages = ai.SystemAndUserMessage(system, prompt)
	}

	result, err := e.client.ChatJSON(ctx, messages, 0.0)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Warn("AI keyword extraction failed, falling back to rule-based extraction",
			"error", err.Error())
		return fallbackJobKeywords(text), nil
	}

	keywords := make(map[string]struct{})
	if rawList, ok := result["keywords"].([]any); ok {
		for _, raw := range rawList {
			kw, ok := raw.(string)
			if !ok {
				continue
			}
			kw = strings.TrimSpace(strings.ToLower(kw))
			if len(kw) > 2 && len(kw) < 50 {
				keywords[kw] = struct{}{}
			}
		}
	}
	return keywords, nil
}

// fallbackJobKeywords is the deterministic extractor used when the model fails
func fallbackJobKeywords(text string) map[string]struct{} {
	words := tokenize(text)
	keywords := make(map[string]struct{})
	for _, word := range words {
		if _, stop := fallbackStopWords[word]; stop {
			continue
		}
		if len(word) > 2 && !allDigits(word) {
			keywords[word] = struct{}{}
		}
	}
	return keywords
}

// ResumeKeywords extracts unigrams plus the 20 most frequent bigrams from
// resume text. Rule-based extraction is sufficient here because the terms
// only need to match against the AI-extracted job keywords.
func ResumeKeywords(text string) map[string]struct{} {
	words := tokenize(text)

	keywords := make(map[string]struct{})
	for _, word := range words {
		if _, stop := resumeStopWords[word]; stop {
			continue
		}
		if len(word) > 2 && !allDigits(word) {
			keywords[word] = struct{}{}
		}
	}

	for _, bigram := range topBigrams(words, 20) {
		keywords[bigram] = struct{}{}
	}
	return keywords
}

// topBigrams counts adjacent non-stopword pairs and returns the n most
// frequent, ties broken by first-encounter order
func topBigrams(words []string, n int) []string {
	counts := make(map[string]int)
	order := []string{}
	for i := 0; i+1 < len(words); i++ {
		if _, stop := resumeStopWords[words[i]]; stop {
			continue
		}
		if _, stop := resumeStopWords[words[i+1]]; stop {
			continue
		}
		bigram := words[i] + " " + words[i+1]
		if len(bigram) <= 6 {
			continue
		}
		if _, seen := counts[bigram]; !seen {
			order = append(order, bigram)
		}
		counts[bigram]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

// tokenize lowercases, strips non-word characters except periods, and splits
// on whitespace
func tokenize(text string) []string {
	text = strings.ToLower(text)
	text = nonWordChars.ReplaceAllString(text, " ")
	return strings.Fields(text)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
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

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
