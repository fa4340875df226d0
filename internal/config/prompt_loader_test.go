package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPromptsFromFiles(t *testing.T) {
	// Create temporary directory for test files
	tempDir := t.TempDir()

	// Create test prompt files
	systemPromptContent := "Test system prompt for resume parsing"
	userPromptContent := "Test user prompt template: %s"

	systemPromptFile := filepath.Join(tempDir, "system.parse.md")
	userPromptFile := filepath.Join(tempDir, "user.parse.md")

	if err := os.WriteFile(systemPromptFile, []byte(systemPromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test system prompt file: %v", err)
	}

	if err := os.WriteFile(userPromptFile, []byte(userPromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test user prompt file: %v", err)
	}

	// Create test config
	config := &Config{
		AI: AIConfig{
			Parse: OperationAIConfig{
				CustomPrompts: PromptConfig{
					SystemPrompts: SystemPrompts{
						ParseResumeFile: systemPromptFile,
					},
					UserPrompts: UserPrompts{
						ParseResumeFile: userPromptFile,
					},
				},
			},
		},
	}

	// Test file loading
	err := config.loadPromptsFromFiles()
	if err != nil {
		t.Fatalf("Failed to load prompts from files: %v", err)
	}

	// Verify content was loaded into the global prompt store
	loadedOps := GetPromptsForOperation("parse")

	if loadedOps.SystemPrompts.ParseResume != systemPromptContent {
		t.Errorf("Expected loaded system prompt content '%s', got '%s'",
			systemPromptContent, loadedOps.SystemPrompts.ParseResume)
	}

	if loadedOps.UserPrompts.ParseResume != userPromptContent {
		t.Errorf("Expected loaded user prompt content '%s', got '%s'",
			userPromptContent, loadedOps.UserPrompts.ParseResume)
	}

	// Verify file paths are preserved
	if config.AI.Parse.CustomPrompts.SystemPrompts.ParseResumeFile != systemPromptFile {
		t.Error("Expected system prompt file path to be preserved")
	}

	if config.AI.Parse.CustomPrompts.UserPrompts.ParseResumeFile != userPromptFile {
		t.Error("Expected user prompt file path to be preserved")
	}
}

func TestReloadPrompts(t *testing.T) {
	tempDir := t.TempDir()

	promptFile := filepath.Join(tempDir, "system.bullets.md")
	if err := os.WriteFile(promptFile, []byte("Original bullets prompt"), 0600); err != nil {
		t.Fatalf("Failed to create prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			Bullets: OperationAIConfig{
				CustomPrompts: PromptConfig{
					SystemPrompts: SystemPrompts{
						BulletsFile: promptFile,
					},
				},
			},
		},
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts from files: %v", err)
	}

	if got := GetPromptsForOperation("bullets").SystemPrompts.Bullets; got != "Original bullets prompt" {
		t.Fatalf("Expected original bullets prompt, got '%s'", got)
	}

	// Change the file content and reload
	if err := os.WriteFile(promptFile, []byte("Updated bullets prompt"), 0600); err != nil {
		t.Fatalf("Failed to update prompt file: %v", err)
	}

	if err := config.ReloadPrompts(); err != nil {
		t.Fatalf("Failed to reload prompts: %v", err)
	}

	if got := GetPromptsForOperation("bullets").SystemPrompts.Bullets; got != "Updated bullets prompt" {
		t.Errorf("Expected updated bullets prompt after reload, got '%s'", got)
	}
}

func TestPromptFilePaths(t *testing.T) {
	tempDir := t.TempDir()

	systemFile := filepath.Join(tempDir, "system.md")
	userFile := filepath.Join(tempDir, "user.md")

	config := &Config{
		AI: AIConfig{
			CustomPrompts: PromptConfig{
				SystemPrompts: SystemPrompts{
					QualityScoreFile: systemFile,
				},
			},
			Rewrite: OperationAIConfig{
				CustomPrompts: PromptConfig{
					UserPrompts: UserPrompts{
						RewriteFile: userFile,
					},
					SystemPrompts: SystemPrompts{
						// Duplicate reference to the same file should be deduped
						RewriteFile: userFile,
					},
				},
			},
		},
	}

	paths := config.PromptFilePaths()

	if len(paths) != 2 {
		t.Fatalf("Expected 2 unique prompt file paths, got %d: %v", len(paths), paths)
	}
}

func TestValidatePromptFiles(t *testing.T) {
	// Create temporary directory for test files
	tempDir := t.TempDir()

	// Create a valid test file
	validFile := filepath.Join(tempDir, "valid.md")
	if err := os.WriteFile(validFile, []byte("Valid content"), 0600); err != nil {
		t.Fatalf("Failed to create valid test file: %v", err)
	}

	// Test with valid file
	config := &Config{
		AI: AIConfig{
			Parse: OperationAIConfig{
				CustomPrompts: PromptConfig{
					SystemPrompts: SystemPrompts{
						ParseResumeFile: validFile,
					},
				},
			},
		},
	}

	err := config.validatePromptFiles()
	if err != nil {
		t.Errorf("Expected validation to pass for valid file, got error: %v", err)
	}

	// Test with non-existent file
	config.AI.Parse.CustomPrompts.SystemPrompts.ParseResumeFile = filepath.Join(tempDir, "nonexistent.md")

	err = config.validatePromptFiles()
	if err == nil {
		t.Error("Expected validation to fail for non-existent file")
	}
}

func TestLoadPromptFromFile(t *testing.T) {
	// Create temporary directory for test files
	tempDir := t.TempDir()

	// Test with valid file
	content := "Test prompt content"
	testFile := filepath.Join(tempDir, "test.md")
	if err := os.WriteFile(testFile, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	config := &Config{}
	loadedContent, err := config.loadPromptFromFile(testFile, "system", "parse")
	if err != nil {
		t.Fatalf("Failed to load prompt from file: %v", err)
	}

	if loadedContent != content {
		t.Errorf("Expected content '%s', got '%s'", content, loadedContent)
	}

	// Test with empty file
	emptyFile := filepath.Join(tempDir, "empty.md")
	if err := os.WriteFile(emptyFile, []byte(""), 0600); err != nil {
		t.Fatalf("Failed to create empty test file: %v", err)
	}

	_, err = config.loadPromptFromFile(emptyFile, "system", "parse")
	if err == nil {
		t.Error("Expected error for empty file")
	}

	// Test with non-existent file
	_, err = config.loadPromptFromFile(filepath.Join(tempDir, "nonexistent.md"), "system", "parse")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}
