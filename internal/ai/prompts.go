package ai

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	ParseResume  string
	JobKeywords  string
	QualityScore string
	Bullets      string
	Rewrite      string
}

// UserPrompts contains user-level prompt templates with fmt placeholders for
// dynamic content. The bullet prompt is assembled programmatically from the
// section configuration and has no template here.
type UserPrompts struct {
	ParseResume  string
	JobKeywords  string
	QualityScore string
	Rewrite      string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	ParseResume: `You are an elite resume parsing AI with a strict commitment to accuracy. Your core principles are:

- Extract EXACTLY as written - never rephrase, infer, or hallucinate
- Use empty strings or empty arrays for anything absent from the source text
- Preserve bullet text and original date formatting
- Output strict JSON only, with no extra text`,

	JobKeywords: `You are an expert ATS and recruitment analyst. You extract the keywords an applicant tracking system would screen for: skills, technologies, frameworks, qualifications, and key responsibilities. You never include stopwords, generic filler terms, or company names that are not also technologies.`,

	QualityScore: `You are an ATS (Applicant Tracking System) analyzer. You evaluate how well a resume matches a job description across relevance, achievement quality, and presentation, and you respond only with the requested JSON object.`,

	Bullets: `You are an elite resume writer creating ATS-optimized bullet points. Every bullet starts with a strong action verb, carries quantifiable impact where the section demands it, and stays within the requested word bounds.`,

	Rewrite: `You are an expert resume editor. You strengthen verbs, prefer active voice, keep or add quantifiable metrics, cut filler, and never change the meaning or truth of the original text.`,
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	ParseResume: `You are an elite resume parsing AI with 99.9%% accuracy. Parse the following resume into STRICT JSON format.

**PARSING RULES (CRITICAL - FOLLOW EXACTLY):**

1. **SECTION DETECTION**: Identify sections using these patterns:
   - Contact Info: Usually at the top (name, email, phone, location)
   - Summary/Objective: Keywords like "Summary", "Profile", "About", "Objective"
   - Experience: Keywords like "Experience", "Work History", "Employment", "Career"
   - Education: Keywords like "Education", "Academic", "Degree"
   - Skills: Keywords like "Skills", "Technologies", "Tools", "Expertise"
   - Projects: Keywords like "Projects", "Portfolio"
   - Certifications: Keywords like "Certifications", "Licenses", "Awards"

2. **DATA EXTRACTION PRECISION**:
   - Extract EXACTLY as written - do not rephrase
   - If a field is missing, use empty string "" or empty array []
   - For work experience: Extract job title, company, dates, and all bullet points
   - For education: Extract degree, institution, graduation date
   - For skills: Extract ALL mentioned skills (technical, soft, tools)

3. **BULLET POINTS**: Preserve all bullet points under experience/projects
   - Combine multi-line bullets into single strings
   - Keep original formatting and numbers

4. **DATE PARSING**: Extract dates in original format
   - Examples: "Jan 2020 - Present", "2019-2021", "June 2022"

5. **NO HALLUCINATION**:
   - If you cannot find data for a field, leave it empty
   - DO NOT guess or infer information
   - DO NOT create placeholder text

**EXACT JSON SCHEMA (OUTPUT ONLY THIS - NO EXTRA TEXT):**
` + "```json" + `
{
  "name": "",
  "title": "",
  "location": "",
  "email": "",
  "phone": "",
  "website": "",
  "summary": "",
  "skills": [],
  "experience": [
    {
      "role": "",
      "company": "",
      "period": "",
      "details": ""
    }
  ],
  "education": [
    {
      "degree": "",
      "institution": "",
      "period": ""
    }
  ],
  "projects": [
    {
      "name": "",
      "details": "",
      "link": ""
    }
  ],
  "certifications": [
    {
      "name": "",
      "issuer": "",
      "link": ""
    }
  ]
}
` + "```" + `

**RESUME TEXT:**
---
%s
---

**YOUR RESPONSE (JSON ONLY - NO MARKDOWN, NO EXPLANATION):**`,

	JobKeywords: `You are an expert ATS and recruitment analyst. Your task is to extract the most critical keywords from this job description.

**JOB DESCRIPTION:**
---
%s
---

**INSTRUCTIONS:**
1.  **Identify Core Requirements:** Focus on essential skills, technologies, programming languages, frameworks, qualifications, and key responsibilities.
2.  **Extract Exact Terms:** Pull the keywords exactly as they appear in the text.
3.  **Prioritize:** Identify the top 20-30 most important keywords that an ATS would screen for.
4.  **Categorize (for your reference):** Think in terms of "Technical Skills" (e.g., Python, React, AWS), "Soft Skills" (e.g., communication, leadership), and "Qualifications" (e.g., "Master's degree", "5+ years of experience").
5.  **Clean the Output:**
    -   Return a flat list of unique keywords.
    -   Convert all keywords to lowercase.
    -   Do NOT include generic words or stopwords (e.g., "the", "and", "a", "with", "experience").
    -   Do NOT include company-specific names unless they are also a technology.

**OUTPUT FORMAT:**
Return a single JSON object with one key, "keywords", which is an array of strings.

**EXAMPLE OUTPUT:**
` + "```json" + `
{
  "keywords": ["python", "django", "react", "aws", "restful apis", "microservices", "agile methodologies", "team leadership", "bachelor's degree"]
}
` + "```" + `

**YOUR RESPONSE (JSON ONLY):**`,

	QualityScore: `You are an ATS (Applicant Tracking System) analyzer. Evaluate how well this resume matches the job description.

**JOB DESCRIPTION:**
%s

**RESUME:**
%s

**EVALUATION CRITERIA:**
1. Relevance of experience to the job requirements (0-10 points)
2. Quality of achievement descriptions and metrics (0-10 points)
3. Professional presentation and clarity (0-10 points)

**RESPOND WITH ONLY A JSON OBJECT:**
{
  "relevance_score": <0-10>,
  "quality_score": <0-10>,
  "presentation_score": <0-10>,
  "total": <0-30>
}`,

	Rewrite: `You are an expert resume editor. Rewrite the following text to make it more %s, professional, and impactful.

**ORIGINAL TEXT:**
%s

%s
**REWRITING GUIDELINES:**
1. Strengthen action verbs (avoid weak verbs like "helped", "worked on")
2. Add quantifiable metrics if the context allows (or keep existing ones)
3. Make it more concise - remove filler words
4. Use active voice, not passive voice
5. Maintain the core meaning and truth of the original text
6. Keep it to 2-4 lines maximum

**OUTPUT:**
Return ONLY the rewritten text. No explanations, no preambles.
If the text has multiple bullet points, maintain that structure.

**YOUR RESPONSE:**`,
}

// ResolvePrompt selects the correct prompt string based on a clear priority order:
// 1. A prompt loaded from a file.
// 2. A prompt defined directly in the configuration.
// 3. A hardcoded default prompt.
func ResolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
