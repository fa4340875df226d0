package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// GetLoadedPrompts returns the loaded prompt content in a thread-safe way
func GetLoadedPrompts() AllLoadedPrompts {
	loadedPromptsMu.RLock()
	defer loadedPromptsMu.RUnlock()
	return loadedPrompts
}

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	var next AllLoadedPrompts

	// Load global prompts
	if err := c.loadSystemPromptsFromFiles(&c.AI.CustomPrompts.SystemPrompts, &next.Global.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load global system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.CustomPrompts.UserPrompts, &next.Global.UserPrompts); err != nil {
		return fmt.Errorf("failed to load global user prompts: %w", err)
	}

	// Load operation-specific prompts
	if err := c.loadSystemPromptsFromFiles(&c.AI.Parse.CustomPrompts.SystemPrompts, &next.Parse.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load parse system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Parse.CustomPrompts.UserPrompts, &next.Parse.UserPrompts); err != nil {
		return fmt.Errorf("failed to load parse user prompts: %w", err)
	}

	if err := c.loadSystemPromptsFromFiles(&c.AI.Score.CustomPrompts.SystemPrompts, &next.Score.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load score system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Score.CustomPrompts.UserPrompts, &next.Score.UserPrompts); err != nil {
		return fmt.Errorf("failed to load score user prompts: %w", err)
	}

	if err := c.loadSystemPromptsFromFiles(&c.AI.Bullets.CustomPrompts.SystemPrompts, &next.Bullets.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load bullets system prompts: %w", err)
	}

	if err := c.loadSystemPromptsFromFiles(&c.AI.Rewrite.CustomPrompts.SystemPrompts, &next.Rewrite.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load rewrite system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Rewrite.CustomPrompts.UserPrompts, &next.Rewrite.UserPrompts); err != nil {
		return fmt.Errorf("failed to load rewrite user prompts: %w", err)
	}

	loadedPromptsMu.Lock()
	loadedPrompts = next
	loadedPromptsMu.Unlock()

	// Log summary of prompt sources after loading
	c.logPromptLoadingSummary()

	return nil
}

// ReloadPrompts re-reads all prompt files. Used by the serve-mode file
// watcher when a prompt file changes on disk.
func (c *Config) ReloadPrompts() error {
	return c.loadPromptsFromFiles()
}

// PromptFilePaths returns every prompt file path referenced by the
// configuration. The serve-mode watcher registers these with fsnotify.
func (c *Config) PromptFilePaths() []string {
	candidates := []string{
		c.AI.CustomPrompts.SystemPrompts.ParseResumeFile,
		c.AI.CustomPrompts.SystemPrompts.JobKeywordsFile,
		c.AI.CustomPrompts.SystemPrompts.QualityScoreFile,
		c.AI.CustomPrompts.SystemPrompts.BulletsFile,
		c.AI.CustomPrompts.SystemPrompts.RewriteFile,
		c.AI.CustomPrompts.UserPrompts.ParseResumeFile,
		c.AI.CustomPrompts.UserPrompts.JobKeywordsFile,
		c.AI.CustomPrompts.UserPrompts.QualityScoreFile,
		c.AI.CustomPrompts.UserPrompts.RewriteFile,
		c.AI.Parse.CustomPrompts.SystemPrompts.ParseResumeFile,
		c.AI.Parse.CustomPrompts.UserPrompts.ParseResumeFile,
		c.AI.Score.CustomPrompts.SystemPrompts.JobKeywordsFile,
		c.AI.Score.CustomPrompts.SystemPrompts.QualityScoreFile,
		c.AI.Score.CustomPrompts.UserPrompts.JobKeywordsFile,
		c.AI.Score.CustomPrompts.UserPrompts.QualityScoreFile,
		c.AI.Bullets.CustomPrompts.SystemPrompts.BulletsFile,
		c.AI.Rewrite.CustomPrompts.SystemPrompts.RewriteFile,
		c.AI.Rewrite.CustomPrompts.UserPrompts.RewriteFile,
	}

	var paths []string
	seen := make(map[string]struct{})
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	return paths
}

// loadSystemPromptsFromFiles loads system prompts from files if file paths are specified
func (c *Config) loadSystemPromptsFromFiles(prompts *SystemPrompts, target *LoadedSystemPrompts) error {
	if prompts.ParseResumeFile != "" {
		content, err := c.loadPromptFromFile(prompts.ParseResumeFile, "system", "parseResume")
		if err != nil {
			return err
		}
		target.ParseResume = content
	}

	if prompts.JobKeywordsFile != "" {
		content, err := c.loadPromptFromFile(prompts.JobKeywordsFile, "system", "jobKeywords")
		if err != nil {
			return err
		}
		target.JobKeywords = content
	}

	if prompts.QualityScoreFile != "" {
		content, err := c.loadPromptFromFile(prompts.QualityScoreFile, "system", "qualityScore")
		if err != nil {
			return err
		}
		target.QualityScore = content
	}

	if prompts.BulletsFile != "" {
		content, err := c.loadPromptFromFile(prompts.BulletsFile, "system", "bullets")
		if err != nil {
			return err
		}
		target.Bullets = content
	}

	if prompts.RewriteFile != "" {
		content, err := c.loadPromptFromFile(prompts.RewriteFile, "system", "rewrite")
		if err != nil {
			return err
		}
		target.Rewrite = content
	}

	return nil
}

// loadUserPromptsFromFiles loads user prompts from files if file paths are specified
func (c *Config) loadUserPromptsFromFiles(prompts *UserPrompts, target *LoadedUserPrompts) error {
	if prompts.ParseResumeFile != "" {
		content, err := c.loadPromptFromFile(prompts.ParseResumeFile, "user", "parseResume")
		if err != nil {
			return err
		}
		target.ParseResume = content
	}

	if prompts.JobKeywordsFile != "" {
		content, err := c.loadPromptFromFile(prompts.JobKeywordsFile, "user", "jobKeywords")
		if err != nil {
			return err
		}
		target.JobKeywords = content
	}

	if prompts.QualityScoreFile != "" {
		content, err := c.loadPromptFromFile(prompts.QualityScoreFile, "user", "qualityScore")
		if err != nil {
			return err
		}
		target.QualityScore = content
	}

	if prompts.RewriteFile != "" {
		content, err := c.loadPromptFromFile(prompts.RewriteFile, "user", "rewrite")
		if err != nil {
			return err
		}
		target.Rewrite = content
	}

	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func (c *Config) loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	// Resolve relative paths
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	// Read file content
	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	// Validate content is not empty
	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	// Log successful loading
	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist and are readable before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	// Helper function to validate a file path
	validateFile := func(filePath, promptType, operation string) {
		if filePath == "" {
			return // No file specified, skip validation
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", promptType, operation, filePath))
			return
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", promptType, operation, absPath))
		}
	}

	// Validate global prompt files
	validateFile(c.AI.CustomPrompts.SystemPrompts.ParseResumeFile, "system", "parseResume")
	validateFile(c.AI.CustomPrompts.SystemPrompts.JobKeywordsFile, "system", "jobKeywords")
	validateFile(c.AI.CustomPrompts.SystemPrompts.QualityScoreFile, "system", "qualityScore")
	validateFile(c.AI.CustomPrompts.SystemPrompts.BulletsFile, "system", "bullets")
	validateFile(c.AI.CustomPrompts.SystemPrompts.RewriteFile, "system", "rewrite")
	validateFile(c.AI.CustomPrompts.UserPrompts.ParseResumeFile, "user", "parseResume")
	validateFile(c.AI.CustomPrompts.UserPrompts.JobKeywordsFile, "user", "jobKeywords")
	validateFile(c.AI.CustomPrompts.UserPrompts.QualityScoreFile, "user", "qualityScore")
	validateFile(c.AI.CustomPrompts.UserPrompts.RewriteFile, "user", "rewrite")

	// Validate operation-specific prompt files
	validateFile(c.AI.Parse.CustomPrompts.SystemPrompts.ParseResumeFile, "parse system", "parseResume")
	validateFile(c.AI.Parse.CustomPrompts.UserPrompts.ParseResumeFile, "parse user", "parseResume")
	validateFile(c.AI.Score.CustomPrompts.SystemPrompts.JobKeywordsFile, "score system", "jobKeywords")
	validateFile(c.AI.Score.CustomPrompts.UserPrompts.JobKeywordsFile, "score user", "jobKeywords")
	validateFile(c.AI.Score.CustomPrompts.SystemPrompts.QualityScoreFile, "score system", "qualityScore")
	validateFile(c.AI.Score.CustomPrompts.UserPrompts.QualityScoreFile, "score user", "qualityScore")
	validateFile(c.AI.Bullets.CustomPrompts.SystemPrompts.BulletsFile, "bullets system", "bullets")
	validateFile(c.AI.Rewrite.CustomPrompts.SystemPrompts.RewriteFile, "rewrite system", "rewrite")
	validateFile(c.AI.Rewrite.CustomPrompts.UserPrompts.RewriteFile, "rewrite user", "rewrite")

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// logPromptLoadingSummary logs a summary of loaded prompts
func (c *Config) logPromptLoadingSummary() {
	log.Println("[CONFIG] === Custom Prompt Loading Summary ===")

	promptCount := c.logGlobalPrompts() + c.logOperationSpecificPrompts()

	if promptCount == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", promptCount)
	}

	log.Println("[CONFIG] ==========================================")
}

// logGlobalPrompts logs global prompt status and returns count
func (c *Config) logGlobalPrompts() int {
	count := 0

	promptChecks := []struct {
		content string
		message string
	}{
		{loadedPrompts.Global.SystemPrompts.ParseResume, "[CONFIG] Global system parse prompt: loaded from config/file"},
		{loadedPrompts.Global.SystemPrompts.JobKeywords, "[CONFIG] Global system job-keywords prompt: loaded from config/file"},
		{loadedPrompts.Global.SystemPrompts.QualityScore, "[CONFIG] Global system quality-score prompt: loaded from config/file"},
		{loadedPrompts.Global.SystemPrompts.Bullets, "[CONFIG] Global system bullets prompt: loaded from config/file"},
		{loadedPrompts.Global.SystemPrompts.Rewrite, "[CONFIG] Global system rewrite prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.ParseResume, "[CONFIG] Global user parse prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.JobKeywords, "[CONFIG] Global user job-keywords prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.QualityScore, "[CONFIG] Global user quality-score prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.Rewrite, "[CONFIG] Global user rewrite prompt: loaded from config/file"},
	}

	for _, check := range promptChecks {
		if check.content != "" {
			log.Println(check.message)
			count++
		}
	}

	return count
}

// logOperationSpecificPrompts logs operation-specific prompt status and returns count
func (c *Config) logOperationSpecificPrompts() int {
	count := 0

	promptChecks := []struct {
		content string
		message string
	}{
		{loadedPrompts.Parse.SystemPrompts.ParseResume, "[CONFIG] Parse-specific system prompt: loaded from config/file"},
		{loadedPrompts.Parse.UserPrompts.ParseResume, "[CONFIG] Parse-specific user prompt: loaded from config/file"},
		{loadedPrompts.Score.SystemPrompts.JobKeywords, "[CONFIG] Score-specific job-keywords system prompt: loaded from config/file"},
		{loadedPrompts.Score.UserPrompts.JobKeywords, "[CONFIG] Score-specific job-keywords user prompt: loaded from config/file"},
		{loadedPrompts.Score.SystemPrompts.QualityScore, "[CONFIG] Score-specific quality-score system prompt: loaded from config/file"},
		{loadedPrompts.Score.UserPrompts.QualityScore, "[CONFIG] Score-specific quality-score user prompt: loaded from config/file"},
		{loadedPrompts.Bullets.SystemPrompts.Bullets, "[CONFIG] Bullets-specific system prompt: loaded from config/file"},
		{loadedPrompts.Rewrite.SystemPrompts.Rewrite, "[CONFIG] Rewrite-specific system prompt: loaded from config/file"},
		{loadedPrompts.Rewrite.UserPrompts.Rewrite, "[CONFIG] Rewrite-specific user prompt: loaded from config/file"},
	}

	for _, check := range promptChecks {
		if check.content != "" {
			log.Println(check.message)
			count++
		}
	}

	return count
}
