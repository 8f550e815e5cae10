package main

import (
	"fmt"
	"log/slog"

	"cadenza/internal/catalog"
	"cadenza/internal/config"
	"cadenza/internal/enhancement"
	"cadenza/internal/generation"
	"cadenza/internal/language"
	"cadenza/internal/references"
	"cadenza/internal/services/llm"
	"cadenza/internal/services/wikipedia"
	"cadenza/internal/store"
	"cadenza/internal/validation"
)

// backends are the two remote collaborators of the pipeline.
type backends struct {
	completer llm.Completer
	searcher  wikipedia.Searcher
}

// backendFactory builds backends from config. Tests substitute fakes.
type backendFactory func(cfg *config.Config) (backends, error)

func defaultBackends(cfg *config.Config) (backends, error) {
	if err := cfg.RequireLLMKey(); err != nil {
		return backends{}, err
	}
	llmCfg := cfg.GetLLM()
	completer := llm.NewClient(llm.Config{
		APIKey:         llmCfg.APIKey,
		BaseURL:        llmCfg.BaseURL,
		Model:          llmCfg.Model,
		Referer:        llmCfg.Referer,
		Title:          llmCfg.Title,
		TimeoutSeconds: llmCfg.TimeoutSeconds,
	})
	searcher, err := wikipedia.New(cfg.Wikipedia.BaseURL, cfg.Wikipedia.UserAgent, wikipedia.WithTimeout(cfg.WikipediaTimeout()))
	if err != nil {
		return backends{}, fmt.Errorf("wikipedia client: %w", err)
	}
	return backends{completer: completer, searcher: searcher}, nil
}

// pipeline is the fully wired set of components for one invocation.
type pipeline struct {
	catalog *catalog.Service
}

func newPipeline(cfg *config.Config, b backends, repo store.Repository, logger *slog.Logger) *pipeline {
	llmCfg := cfg.GetLLM()
	model := llmCfg.Model

	completion := llm.Options{
		MaxTokens:   llmCfg.MaxTokens,
		Temperature: llmCfg.Temperature,
		TopP:        llmCfg.TopP,
		JSON:        true,
	}

	resolver := references.New(b.completer, b.searcher,
		references.WithModel(model),
		references.WithCandidateLimit(cfg.Wikipedia.CandidateLimit),
		references.WithLogger(logger),
	)
	validator := validation.New(b.completer,
		validation.WithModel(model),
		validation.WithLogger(logger),
	)
	generator := generation.New(b.completer, resolver, validator,
		generation.WithModel(model),
		generation.WithCompletionOptions(completion),
		generation.WithQualityGate(cfg.Generation.QualityThreshold, cfg.Generation.MaxAttempts),
		generation.WithBatchWindow(cfg.Generation.BatchWindow),
		generation.WithDefaultLanguage(cfg.Wikipedia.DefaultLanguage),
		generation.WithDetector(language.NewDetector()),
		generation.WithLogger(logger),
	)
	enhancer := enhancement.New(b.completer, resolver, validator,
		enhancement.WithModel(model),
		enhancement.WithCompletionOptions(completion),
		enhancement.WithLogger(logger),
	)
	service := catalog.New(repo, generator, enhancer,
		catalog.WithLogger(logger),
		catalog.WithSweepConcurrency(cfg.Generation.BatchWindow),
	)
	return &pipeline{catalog: service}
}

// pipeline wires config, logger, store and backends for commands that
// generate or enhance.
func (c *commandContext) pipeline() (*pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	st, err := c.openStore()
	if err != nil {
		return nil, err
	}
	b, err := c.backends(cfg)
	if err != nil {
		return nil, err
	}
	return newPipeline(cfg, b, st, logger), nil
}
