package config

import (
	"sync"
)

var (
	loadedPrompts   AllLoadedPrompts
	loadedPromptsMu sync.RWMutex
)

// LoadedPrompts holds the content of prompts loaded from files
type LoadedPrompts struct {
	SystemPrompts LoadedSystemPrompts
	UserPrompts   LoadedUserPrompts
}

// LoadedSystemPrompts contains loaded system-level instructions
type LoadedSystemPrompts struct {
	ParseResume  string
	JobKeywords  string
	QualityScore string
	Bullets      string
	Rewrite      string
}

// LoadedUserPrompts contains loaded user-level prompt templates
type LoadedUserPrompts struct {
	ParseResume  string
	JobKeywords  string
	QualityScore string
	Rewrite      string
}

// OperationLoadedPrompts holds loaded prompts for a specific operation
type OperationLoadedPrompts struct {
	SystemPrompts LoadedSystemPrompts
	UserPrompts   LoadedUserPrompts
}

// AllLoadedPrompts holds all loaded prompts for all operations
type AllLoadedPrompts struct {
	Global  LoadedPrompts
	Parse   OperationLoadedPrompts
	Score   OperationLoadedPrompts
	Bullets OperationLoadedPrompts
	Rewrite OperationLoadedPrompts
}

// GetPromptsForOperation returns a copy of the loaded prompts for an
// operation type. Safe for concurrent use with the prompt hot-reload
// watcher.
func GetPromptsForOperation(operationType string) OperationLoadedPrompts {
	loadedPromptsMu.RLock()
	defer loadedPromptsMu.RUnlock()

	switch operationType {
	case "parse":
		return loadedPrompts.Parse
	case "score":
		return loadedPrompts.Score
	case "bullets":
		return loadedPrompts.Bullets
	case "rewrite":
		return loadedPrompts.Rewrite
	default:
		return OperationLoadedPrompts{
			SystemPrompts: loadedPrompts.Global.SystemPrompts,
			UserPrompts:   loadedPrompts.Global.UserPrompts,
		}
	}
}
