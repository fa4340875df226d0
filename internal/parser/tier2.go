package parser

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"resumetric/internal/ai"
	"resumetric/internal/config"
	"resumetric/internal/errors"
	"resumetric/internal/types"
)

var (
	excessNewlines = regexp.MustCompile(`\n{3,}`)
	excessSpaces   = regexp.MustCompile(` {2,}`)
)

// Preprocess normalizes raw resume text before it is sent to the model
func Preprocess(text string) string {
	text = strings.TrimSpace(text)
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	return excessSpaces.ReplaceAllString(text, " ")
}

// Tier2Parser prompts the model for a strict-JSON resume record and
// normalizes the result through the validator
type Tier2Parser struct {
	client ai.ChatClient
	cfg    *config.OperationAIConfig
	logger *errors.Logger
}

// NewTier2Parser creates the AI-backed parser for the parse operation
func NewTier2Parser(client ai.ChatClient, cfg *config.OperationAIConfig, logger *errors.Logger) *Tier2Parser {
	return &Tier2Parser{client: client, cfg: cfg, logger: logger}
}

// Parse runs one deterministic JSON-mode extraction. A model or parse
// failure propagates as an error; partial records are never returned.
func (p *Tier2Parser) Parse(ctx context.Context, text string) (types.ResumeRecord, error) {
	text = Preprocess(text)

	loaded := config.GetPromptsForOperation("parse")
	userTemplate := ai.ResolvePrompt(
		loaded.UserPrompts.ParseResume,
		p.cfg.CustomPrompts.UserPrompts.ParseResume,
		ai.DefaultUserPrompts.ParseResume,
	)
	prompt := fmt.Sprintf(userTemplate, text)

	messages := ai.UserMessage(prompt)
	if *p.cfg.UseSystemPrompts {
		system := ai.ResolvePrompt(
			loaded.SystemPrompts.ParseResume,
			p.cfg.CustomPrompts.SystemPrompts.ParseResume,
			ai.DefaultSystemPrompts.ParseResume,
		)
		messages = ai.SystemAndUserMessage(system, prompt)
	}

	raw, err := p.client.ChatJSON(ctx, messages, 0.0)
	if err != nil {
		p.logger.LogError(err, "AI resume parsing failed", "input_length", len(text))
		return types.ResumeRecord{}, errors.NewAIError(errors.ErrCodeResumeParse,
			"Failed to parse resume", err)
	}

	return Normalize(raw), nil
}

// Parser is the two-tier orchestration: rule-based first, AI fallback second
type Parser struct {
	tier2  *Tier2Parser
	logger *errors.Logger
}

// New creates a two-tier parser for the parse operation
func New(client ai.ChatClient, cfg *config.OperationAIConfig, logger *errors.Logger) *Parser {
	return &Parser{
		tier2:  NewTier2Parser(client, cfg, logger),
		logger: logger,
	}
}

// Parse attempts the structural parse and escalates to the AI parser when the
// text is too unstructured. The tier-1 miss is control flow, not an error.
func (p *Parser) Parse(ctx context.Context, text string) (types.ResumeRecord, error) {
	if record, ok := ParseTier1(text); ok {
		p.logger.Debug("Structured resume detected, tier-1 parse accepted",
			"name", record.Name,
			"skills", len(record.Skills))
		return *record, nil
	}

	p.logger.Debug("Insufficient structure for tier-1 parse, using AI parser",
		"input_length", len(text))
	return p.tier2.Parse(ctx, text)
}
