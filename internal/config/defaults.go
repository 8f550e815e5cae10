package config

const (
	defaultConfigPath         = "~/.config/cadenza/config.toml"
	defaultDataDir            = "~/.local/share/cadenza"
	defaultLogDir             = "~/.local/state/cadenza/logs"
	defaultLLMBaseURL         = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel           = "google/gemini-3-flash-preview"
	defaultLLMReferer         = "https://github.com/cadenza"
	defaultLLMTitle           = "Cadenza"
	defaultLLMTimeoutSeconds  = 60
	defaultLLMMaxTokens       = 1200
	defaultLLMTemperature     = 0.3
	defaultLLMTopP            = 0.9
	defaultWikipediaBaseURL   = "https://{lang}.wikipedia.org"
	defaultWikipediaUserAgent = "cadenza/1.0 (music dictionary)"
	defaultWikipediaLanguage  = "en"
	defaultCandidateLimit     = 5
	defaultWikipediaTimeout   = 15
	defaultQualityThreshold   = 70
	defaultMaxAttempts        = 3
	defaultBatchWindow        = 5
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	envLLMAPIKey              = "CADENZA_LLM_API_KEY"
	envOpenRouterAPIKey       = "OPENROUTER_API_KEY"
	maxCandidateLimit         = 50
	maxQualityThreshold       = 100
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			MaxTokens:      defaultLLMMaxTokens,
			Temperature:    defaultLLMTemperature,
			TopP:           defaultLLMTopP,
		},
		Wikipedia: Wikipedia{
			BaseURL:         defaultWikipediaBaseURL,
			UserAgent:       defaultWikipediaUserAgent,
			DefaultLanguage: defaultWikipediaLanguage,
			CandidateLimit:  defaultCandidateLimit,
			TimeoutSeconds:  defaultWikipediaTimeout,
		},
		Generation: Generation{
			QualityThreshold: defaultQualityThreshold,
			MaxAttempts:      defaultMaxAttempts,
			BatchWindow:      defaultBatchWindow,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
