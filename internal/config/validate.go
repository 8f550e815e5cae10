package config

import (
	"errors"
	"fmt"

	"cadenza/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateWikipedia(); err != nil {
		return err
	}
	if err := c.validateGeneration(); err != nil {
		return err
	}
	return c.validateLogging()
}

// RequireLLMKey reports a descriptive error when no completion-service key is configured.
// Commands that only read the local store do not need one, so Validate does not enforce it.
func (c *Config) RequireLLMKey() error {
	if c.LLM.APIKey != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("llm.api_key is required. Set %s or %s env var or edit %s (create with 'cadenza config init')", envLLMAPIKey, envOpenRouterAPIKey, defaultPath)
}

func (c *Config) validateLLM() error {
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.max_tokens must be positive")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	if c.LLM.TopP < 0 || c.LLM.TopP > 1 {
		return errors.New("llm.top_p must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateWikipedia() error {
	if c.Wikipedia.CandidateLimit < 1 || c.Wikipedia.CandidateLimit > maxCandidateLimit {
		return fmt.Errorf("wikipedia.candidate_limit must be between 1 and %d", maxCandidateLimit)
	}
	if c.Wikipedia.TimeoutSeconds <= 0 {
		return errors.New("wikipedia.timeout_seconds must be positive")
	}
	if !language.IsSupported(c.Wikipedia.DefaultLanguage) {
		return fmt.Errorf("wikipedia.default_language %q is not one of %v", c.Wikipedia.DefaultLanguage, language.Codes())
	}
	return nil
}

func (c *Config) validateGeneration() error {
	if c.Generation.QualityThreshold < 1 || c.Generation.QualityThreshold > maxQualityThreshold {
		return fmt.Errorf("generation.quality_threshold must be between 1 and %d", maxQualityThreshold)
	}
	if c.Generation.MaxAttempts < 1 {
		return errors.New("generation.max_attempts must be at least 1")
	}
	if c.Generation.BatchWindow < 1 {
		return errors.New("generation.batch_window must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
