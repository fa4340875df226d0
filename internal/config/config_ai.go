package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.FallbackModel == "" {
		opCfg.FallbackModel = c.AI.FallbackModel
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.BaseURL == "" {
		opCfg.BaseURL = c.AI.BaseURL
	}
	if opCfg.MaxTokens == nil {
		opCfg.MaxTokens = &c.AI.MaxTokens
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetParseConfig returns the AI configuration for parse operations with fallback to global config
func (c *Config) GetParseConfig() OperationAIConfig {
	config := c.AI.Parse

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply parse-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.ParseResume == "" {
		config.CustomPrompts.SystemPrompts.ParseResume = c.AI.CustomPrompts.SystemPrompts.ParseResume
	}
	if config.CustomPrompts.UserPrompts.ParseResume == "" {
		config.CustomPrompts.UserPrompts.ParseResume = c.AI.CustomPrompts.UserPrompts.ParseResume
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.ParseResumeFile == "" {
		config.CustomPrompts.SystemPrompts.ParseResumeFile = c.AI.CustomPrompts.SystemPrompts.ParseResumeFile
	}
	if config.CustomPrompts.UserPrompts.ParseResumeFile == "" {
		config.CustomPrompts.UserPrompts.ParseResumeFile = c.AI.CustomPrompts.UserPrompts.ParseResumeFile
	}

	return config
}

// GetScoreConfig returns the AI configuration for score operations with fallback to global config.
// The score operation carries two prompts: keyword extraction and qualitative analysis.
func (c *Config) GetScoreConfig() OperationAIConfig {
	config := c.AI.Score

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply score-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.JobKeywords == "" {
		config.CustomPrompts.SystemPrompts.JobKeywords = c.AI.CustomPrompts.SystemPrompts.JobKeywords
	}
	if config.CustomPrompts.UserPrompts.JobKeywords == "" {
		config.CustomPrompts.UserPrompts.JobKeywords = c.AI.CustomPrompts.UserPrompts.JobKeywords
	}
	if config.CustomPrompts.SystemPrompts.QualityScore == "" {
		config.CustomPrompts.SystemPrompts.QualityScore = c.AI.CustomPrompts.SystemPrompts.QualityScore
	}
	if config.CustomPrompts.UserPrompts.QualityScore == "" {
		config.CustomPrompts.UserPrompts.QualityScore = c.AI.CustomPrompts.UserPrompts.QualityScore
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.JobKeywordsFile == "" {
		config.CustomPrompts.SystemPrompts.JobKeywordsFile = c.AI.CustomPrompts.SystemPrompts.JobKeywordsFile
	}
	if config.CustomPrompts.UserPrompts.JobKeywordsFile == "" {
		config.CustomPrompts.UserPrompts.JobKeywordsFile = c.AI.CustomPrompts.UserPrompts.JobKeywordsFile
	}
	if config.CustomPrompts.SystemPrompts.QualityScoreFile == "" {
		config.CustomPrompts.SystemPrompts.QualityScoreFile = c.AI.CustomPrompts.SystemPrompts.QualityScoreFile
	}
	if config.CustomPrompts.UserPrompts.QualityScoreFile == "" {
		config.CustomPrompts.UserPrompts.QualityScoreFile = c.AI.CustomPrompts.UserPrompts.QualityScoreFile
	}

	return config
}

// GetBulletsConfig returns the AI configuration for bullets operations with fallback to global config
func (c *Config) GetBulletsConfig() OperationAIConfig {
	config := c.AI.Bullets

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply bullets-specific prompt fallbacks (system prompt only, the user
	// prompt is assembled from section configuration)
	if config.CustomPrompts.SystemPrompts.Bullets == "" {
		config.CustomPrompts.SystemPrompts.Bullets = c.AI.CustomPrompts.SystemPrompts.Bullets
	}
	if config.CustomPrompts.SystemPrompts.BulletsFile == "" {
		config.CustomPrompts.SystemPrompts.BulletsFile = c.AI.CustomPrompts.SystemPrompts.BulletsFile
	}

	return config
}

// GetRewriteConfig returns the AI configuration for rewrite operations with fallback to global config
func (c *Config) GetRewriteConfig() OperationAIConfig {
	config := c.AI.Rewrite

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply rewrite-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.Rewrite == "" {
		config.CustomPrompts.SystemPrompts.Rewrite = c.AI.CustomPrompts.SystemPrompts.Rewrite
	}
	if config.CustomPrompts.UserPrompts.Rewrite == "" {
		config.CustomPrompts.UserPrompts.Rewrite = c.AI.CustomPrompts.UserPrompts.Rewrite
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.RewriteFile == "" {
		config.CustomPrompts.SystemPrompts.RewriteFile = c.AI.CustomPrompts.SystemPrompts.RewriteFile
	}
	if config.CustomPrompts.UserPrompts.RewriteFile == "" {
		config.CustomPrompts.UserPrompts.RewriteFile = c.AI.CustomPrompts.UserPrompts.RewriteFile
	}

	return config
}

// GetLoadedParsePrompts returns a copy of the loaded prompts for parse operation
func (c *Config) GetLoadedParsePrompts() OperationLoadedPrompts {
	return loadedPrompts.Parse
}

// GetLoadedScorePrompts returns a copy of the loaded prompts for score operation
func (c *Config) GetLoadedScorePrompts() OperationLoadedPrompts {
	return loadedPrompts.Score
}

// GetLoadedBulletsPrompts returns a copy of the loaded prompts for bullets operation
func (c *Config) GetLoadedBulletsPrompts() OperationLoadedPrompts {
	return loadedPrompts.Bullets
}

// GetLoadedRewritePrompts returns a copy of the loaded prompts for rewrite operation
func (c *Config) GetLoadedRewritePrompts() OperationLoadedPrompts {
	return loadedPrompts.Rewrite
}

// GetLoadedGlobalPrompts returns a copy of the loaded global prompts
func (c *Config) GetLoadedGlobalPrompts() LoadedPrompts {
	return loadedPrompts.Global
}
