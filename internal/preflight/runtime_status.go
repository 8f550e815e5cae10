package preflight

import (
	"context"
	"strings"

	"cadenza/internal/config"
	"cadenza/internal/services/wikipedia"
)

// CheckLLMFromConfig evaluates completion-service status from config and connectivity.
func CheckLLMFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "Completion API"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	llmCfg := cfg.GetLLM()
	if llmCfg.BaseURL == "" {
		return Result{Name: name, Detail: "Missing base URL"}
	}
	return CheckLLM(ctx, name, llmCfg)
}

// CheckWikipediaFromConfig evaluates lookup-service status from config and connectivity.
func CheckWikipediaFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "Wikipedia"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if strings.TrimSpace(cfg.Wikipedia.BaseURL) == "" {
		return Result{Name: name, Detail: "Missing base URL"}
	}
	client, err := wikipedia.New(cfg.Wikipedia.BaseURL, cfg.Wikipedia.UserAgent, wikipedia.WithTimeout(cfg.WikipediaTimeout()))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return CheckWikipedia(ctx, name, client, cfg.Wikipedia.DefaultLanguage)
}
