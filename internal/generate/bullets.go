package generate

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

const fillerBullet = "Contributed to team success through consistent delivery of high-quality results"

var (
	codeFence    = regexp.MustCompile("```[a-zA-Z]*\n?")
	bulletMarker = regexp.MustCompile(`^[-•*]\s*`)
	numberMarker = regexp.MustCompile(`^\d+[.)]\s*`)
)

// Generator produces validated, ATS-friendly bullet points for a resume
// section
type Generator struct {
	client ai.ChatClient
	cfg    *config.OperationAIConfig
	logger *errors.Logger
}

// NewGenerator creates a bullet generator for the bullets operation
func NewGenerator(client ai.ChatClient, cfg *config.OperationAIConfig, logger *errors.Logger) *Generator {
	return &Generator{client: client, cfg: cfg, logger: logger}
}

// Bullets generates bullet points for the given context text. It never
// returns an error: generation failures degrade to static fallback bullets.
func (g *Generator) Bullets(ctx context.Context, text string, missingKeywords []string, sectionType string) types.BulletsOutput {
	section := SectionConfigFor(sectionType)
	prompt := buildBulletPrompt(text, missingKeywords, section, sectionType)

	result, err := g.chat(ctx, prompt, 0.35)
	if err != nil {
		g.logger.LogError(err, "Bullet generation failed, using fallback bullets",
			"section_type", sectionType)
		return types.BulletsOutput{SectionType: sectionType, Bullets: fallbackBullets(text)}
	}

	bullets := validateAndFormat(result, section)

	// Weak experience bullets get one regeneration pass with a stricter
	// prompt before we accept them
	if assessQuality(bullets, section) < 0.6 && sectionType == "experience" {
		g.logger.Debug("Bullet quality below threshold, regenerating with emphasis")
		regenerated, err := g.regenerateWithEmphasis(ctx, text, missingKeywords, section)
		if err != nil {
			g.logger.LogError(err, "Bullet regeneration failed, using fallback bullets",
				"section_type", sectionType)
			return types.BulletsOutput{SectionType: sectionType, Bullets: fallbackBullets(text)}
		}
		bullets = regenerated
	}

	return types.BulletsOutput{SectionType: sectionType, Bullets: bullets}
}

func (g *Generator) chat(ctx context.Context, prompt string, temperature float32) (string, error) {
	messages := ai.UserMessage(prompt)
	if *g.cfg.UseSystemPrompts {
		loaded := config.GetPromptsForOperation("bullets")
		system := ai.ResolvePrompt(
			loaded.SystemPrompts.Bullets,
			g.cfg.CustomPrompts.SystemPrompts.Bullets,
			ai.DefaultSystemPrompts.Bullets,
		)
		messages = ai.SystemAndUserMessage(system, prompt)
	}
	return g.client.ChatText(ctx, messages, temperature)
}

func (g *Generator) regenerateWithEmphasis(ctx context.Context, text string, missingKeywords []string, section types.SectionConfig) (string, error) {
	keywordList := "N/A"
	if len(missingKeywords) > 0 {
		top := missingKeywords
		if len(top) > 3 {
			top = top[:3]
		}
		keywordList = strings.Join(top, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d EXCEPTIONAL resume bullets for: %q\n\n", section.MinBullets, text)
	b.WriteString("**MANDATORY REQUIREMENTS:**\n")
	b.WriteString("1. MUST start with a strong action verb (Led, Architected, Delivered, etc.)\n")
	b.WriteString("2. MUST include quantifiable metrics (numbers, %, $, time, scale)\n")
	fmt.Fprintf(&b, "3. MUST be %d-%d words each\n\n", section.MinWordsPerBullet, section.MaxWordsPerBullet)
	fmt.Fprintf(&b, "**Keywords to incorporate:** %s\n\n", keywordList)
	b.WriteString("**Output format:** Each line starts with a hyphen (-). No other text.\n\n")
	b.WriteString("GENERATE NOW:")

	result, err := g.chat(ctx, b.String(), 0.3)
	if err != nil {
		return "", err
	}
	return validateAndFormat(result, section), nil
}

func buildBulletPrompt(text string, missingKeywords []string, section types.SectionConfig, sectionType string) string {
	var b strings.Builder

	b.WriteString("You are an elite resume writer creating ATS-optimized bullet points.\n\n")
	fmt.Fprintf(&b, "**SECTION TYPE:** %s\n", strings.ToUpper(sectionType))
	fmt.Fprintf(&b, "**USER CONTEXT:** %s\n\n", text)

	if len(missingKeywords) > 0 {
		priority := missingKeywords
		if len(priority) > 5 {
			priority = priority[:5]
		}
		quoted := make([]string, len(priority))
		for i, kw := range priority {
			quoted[i] = fmt.Sprintf("%q", kw)
		}
		b.WriteString("**KEYWORD INTEGRATION (CRITICAL):**\n")
		b.WriteString("Naturally incorporate AT LEAST 3 of these high-value keywords:\n")
		b.WriteString(strings.Join(quoted, ", "))
		b.WriteString("\n\nRules:\n")
		b.WriteString("- Use exact keyword matches where possible\n")
		b.WriteString("- Integrate them contextually (don't force)\n")
		b.WriteString("- Prioritize the first 3 keywords\n\n")
	}

	b.WriteString(styleInstructions(sectionType))

	b.WriteString("\n**FORMATTING REQUIREMENTS:**\n")
	fmt.Fprintf(&b, "- Generate %d-%d bullet points\n", section.MinBullets, section.MaxBullets)
	fmt.Fprintf(&b, "- Each bullet: %d-%d words\n", section.MinWordsPerBullet, section.MaxWordsPerBullet)
	b.WriteString("- Start each with a strong action verb (avoid weak verbs like \"helped\", \"assisted\", \"worked on\")\n")
	b.WriteString("- Use past tense for previous roles, present tense for current roles\n")
	b.WriteString("- Include numbers/metrics wherever possible\n\n")
	b.WriteString("**OUTPUT FORMAT:**\n")
	b.WriteString("Return ONLY the bullet points, each starting with a hyphen (-).\n")
	b.WriteString("NO introductions, explanations, or extra text.\n\n")
	b.WriteString("**EXAMPLE OUTPUT:**\n")
	b.WriteString(section.Example)
	b.WriteString("\n\n**YOUR RESPONSE (BULLETS ONLY):**")

	return b.String()
}

func styleInstructions(sectionType string) string {
	switch sectionType {
	case "summary":
		return `**SUMMARY STYLE:** Professional value proposition

**STRUCTURE:**
- Start with role + years of experience
- Highlight 2-3 core specializations
- Mention key achievements or unique value

**EXAMPLES:**
- Senior software engineer with 7+ years architecting scalable cloud solutions, specializing in distributed systems and real-time data processing
- Full-stack developer expert in React and Node.js, with proven track record of delivering high-traffic applications serving 1M+ users
`
	case "projects":
		return `**PROJECT SHOWCASE:** Technical depth + business impact

**MUST INCLUDE:**
- Technologies/stack used
- Scale or complexity indicators
- Measurable outcomes

**EXAMPLES:**
- Built serverless e-commerce platform using AWS Lambda and DynamoDB, processing 10K+ daily transactions with 99.99% uptime
- Developed ML-powered recommendation engine using TensorFlow, increasing user engagement by 35% and revenue by $2M
`
	default:
		return `**ACHIEVEMENT FORMULA:** Use the X-Y-Z pattern:
"Accomplished [X] by doing [Y], resulting in [Z]"

**MUST INCLUDE:**
- Strong action verb (Led, Architected, Implemented, Designed, Optimized)
- Quantifiable impact (%, $, time saved, users affected)
- Business value or technical achievement

**EXAMPLES:**
- Architected microservices platform handling 50K+ requests/sec, improving system reliability from 95% to 99.9%
- Led team of 6 developers to deliver mobile app 3 weeks ahead of schedule, achieving 100K+ downloads in first month
- Optimized database queries reducing average response time by 70% and cutting AWS costs by $45K annually
`
	}
}

// validateAndFormat enforces bullet count, word-count, and action-verb
// constraints on model output, padding with filler bullets when short
func validateAndFormat(text string, section types.SectionConfig) string {
	text = codeFence.ReplaceAllString(strings.TrimSpace(text), "")

	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cleaned := bulletMarker.ReplaceAllString(line, "")
		cleaned = numberMarker.ReplaceAllString(cleaned, "")

		words := strings.Fields(cleaned)
		if len(words) < section.MinWordsPerBullet-5 {
			continue
		}
		if len(words) > section.MaxWordsPerBullet+10 {
			cleaned = strings.Join(words[:section.MaxWordsPerBullet], " ") + "..."
		}

		if !StartsWithStrongVerb(cleaned) {
			cleaned = "Delivered " + cleaned
		}

		bullets = append(bullets, cleaned)
	}

	for len(bullets) < section.MinBullets {
		bullets = append(bullets, fillerBullet)
	}
	if len(bullets) > section.MaxBullets {
		bullets = bullets[:section.MaxBullets]
	}

	formatted := make([]string, len(bullets))
	for i, bullet := range bullets {
		if len(bullet) > 1 {
			bullet = strings.ToUpper(bullet[:1]) + bullet[1:]
		}
		formatted[i] = "- " + bullet
	}
	return strings.Join(formatted, "\n")
}

// assessQuality scores formatted bullets from 0.0 to 1.0 on verb strength,
// metric presence, and length
func assessQuality(bullets string, section types.SectionConfig) float64 {
	var list []string
	for _, line := range strings.Split(bullets, "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "- ", ""))
		if line != "" {
			list = append(list, line)
		}
	}
	if len(list) == 0 {
		return 0.0
	}

	score := 0.0
	n := float64(len(list))

	verbCount := 0
	for _, b := range list {
		if StartsWithStrongVerb(b) {
			verbCount++
		}
	}
	score += float64(verbCount) / n * 0.3

	if section.RequiresMetrics {
		metricCount := 0
		for _, b := range list {
			if metricPattern.MatchString(b) {
				metricCount++
			}
		}
		score += float64(metricCount) / n * 0.4
	} else {
		score += 0.4
	}

	lengthCount := 0
	for _, b := range list {
		wc := len(strings.Fields(b))
		if wc >= section.MinWordsPerBullet && wc <= section.MaxWordsPerBullet {
			lengthCount++
		}
	}
	score += float64(lengthCount) / n * 0.3

	return score
}

func fallbackBullets(text string) string {
	return fmt.Sprintf(`- Delivered results in %s
- Collaborated effectively with cross-functional team
- Contributed to project success through consistent high-quality work`, text)
}
