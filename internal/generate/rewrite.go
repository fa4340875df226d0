package generate

import (
	"context"
	"fmt"
	"strings"

	"resumetric/internal/ai"
	"resumetric/internal/config"
	"resumetric/internal/errors"
	"resumetric/internal/types"
)

// Rewriter rewrites resume text in a requested tone, optionally weaving in
// missing keywords
type Rewriter struct {
	client ai.ChatClient
	cfg    *config.OperationAIConfig
	logger *errors.Logger
}

// NewRewriter creates a rewriter for the rewrite operation
func NewRewriter(client ai.ChatClient, cfg *config.OperationAIConfig, logger *errors.Logger) *Rewriter {
	return &Rewriter{client: client, cfg: cfg, logger: logger}
}

// Rewrite returns the text rewritten in the given tone. It never returns an
// error: on any failure the original text comes back unchanged.
func (r *Rewriter) Rewrite(ctx context.Context, text, tone string, missingKeywords []string) types.RewriteOutput {
	keywordInstruction := ""
	if len(missingKeywords) > 0 {
		top := missingKeywords
		if len(top) > 3 {
			top = top[:3]
		}
		keywordInstruction = fmt.Sprintf(`
**BONUS OBJECTIVE:** If contextually appropriate, try to naturally incorporate one or more of these keywords:
%s
(Only add them if they fit naturally - do not force them)
`, strings.Join(top, ", "))
	}

	loaded := config.GetPromptsForOperation("rewrite")
	template := ai.ResolvePrompt(
		loaded.UserPrompts.Rewrite,
		r.cfg.CustomPrompts.UserPrompts.Rewrite,
		ai.DefaultUserPrompts.Rewrite,
	)
	prompt := fmt.Sprintf(template, tone, text, keywordInstruction)

	messages := ai.UserMessage(prompt)
	if *r.cfg.UseSystemPrompts {
		system := ai.ResolvePrompt(
			loaded.SystemPrompts.Rewrite,
			r.cfg.CustomPrompts.SystemPrompts.Rewrite,
			ai.DefaultSystemPrompts.Rewrite,
		)
		messages = ai.SystemAndUserMessage(system, prompt)
	}

	result, err := r.client.ChatText(ctx, messages, 0.4)
	if err != nil {
		r.logger.LogError(err, "Rewrite failed, returning original text", "tone", tone)
		return types.RewriteOutput{Tone: tone, Original: text, Rewritten: text}
	}

	result = strings.TrimSpace(result)

	// Runaway responses get cut back to the first few sentences
	if len(result) > len(text)*2 {
		sentences := strings.Split(result, ". ")
		if len(sentences) > 3 {
			sentences = sentences[:3]
		}
		result = strings.Join(sentences, ". ")
		if !strings.HasSuffix(result, ".") {
			result += "."
		}
	}

	return types.RewriteOutput{Tone: tone, Original: text, Rewritten: result}
}
