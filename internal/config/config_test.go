package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cadenza/internal/config"
)

func TestLoadDefaultConfigUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("CADENZA_LLM_API_KEY", "")
	os.Unsetenv("CADENZA_LLM_API_KEY")
	t.Setenv("OPENROUTER_API_KEY", "router-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "cadenza")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.LLM.APIKey != "router-key" {
		t.Fatalf("expected API key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.Generation.QualityThreshold != 70 || cfg.Generation.MaxAttempts != 3 || cfg.Generation.BatchWindow != 5 {
		t.Fatalf("unexpected generation defaults: %+v", cfg.Generation)
	}
	if cfg.Wikipedia.CandidateLimit != 5 {
		t.Fatalf("unexpected candidate limit: %d", cfg.Wikipedia.CandidateLimit)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "entries.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
}

func TestLoadPrefersCadenzaKeyOverOpenRouter(t *testing.T) {
	t.Setenv("CADENZA_LLM_API_KEY", "cadenza-key")
	t.Setenv("OPENROUTER_API_KEY", "router-key")
	t.Setenv("HOME", t.TempDir())

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "cadenza-key" {
		t.Fatalf("expected cadenza key, got %q", cfg.LLM.APIKey)
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	configPath := filepath.Join(tempHome, "config.toml")
	content := `
[paths]
data_dir = "~/dictionary"

[llm]
api_key = "file-key"
model = "vendor/model"

[wikipedia]
base_url = "http://localhost:9000/"
default_language = "it"

[generation]
quality_threshold = 80
max_attempts = 2

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "dictionary") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.LLM.APIKey != "file-key" || cfg.LLM.Model != "vendor/model" {
		t.Fatalf("unexpected llm section: %+v", cfg.LLM)
	}
	if cfg.Wikipedia.BaseURL != "http://localhost:9000" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Wikipedia.BaseURL)
	}
	if cfg.Wikipedia.DefaultLanguage != "it" {
		t.Fatalf("unexpected default language: %q", cfg.Wikipedia.DefaultLanguage)
	}
	if cfg.Generation.QualityThreshold != 80 || cfg.Generation.MaxAttempts != 2 {
		t.Fatalf("unexpected generation section: %+v", cfg.Generation)
	}
	if cfg.Generation.BatchWindow != 5 {
		t.Fatalf("expected default batch window to survive partial section, got %d", cfg.Generation.BatchWindow)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging section: %+v", cfg.Logging)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"threshold too high", func(c *config.Config) { c.Generation.QualityThreshold = 101 }, "quality_threshold"},
		{"no attempts", func(c *config.Config) { c.Generation.MaxAttempts = 0 }, "max_attempts"},
		{"zero window", func(c *config.Config) { c.Generation.BatchWindow = 0 }, "batch_window"},
		{"candidate limit", func(c *config.Config) { c.Wikipedia.CandidateLimit = 0 }, "candidate_limit"},
		{"unknown language", func(c *config.Config) { c.Wikipedia.DefaultLanguage = "xx" }, "default_language"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"top_p", func(c *config.Config) { c.LLM.TopP = 1.5 }, "top_p"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestRequireLLMKey(t *testing.T) {
	cfg := config.Default()
	if err := cfg.RequireLLMKey(); err == nil {
		t.Fatal("expected error without api key")
	}
	cfg.LLM.APIKey = "k"
	if err := cfg.RequireLLMKey(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSampleConfigParsesAndValidates(t *testing.T) {
	cfg := config.Default()
	if err := toml.Unmarshal([]byte(config.SampleConfig()), &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config does not validate: %v", err)
	}
	if cfg.Generation.QualityThreshold != config.Default().Generation.QualityThreshold {
		t.Fatalf("sample threshold drifted from defaults: %d", cfg.Generation.QualityThreshold)
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[generation]") {
		t.Fatalf("sample missing generation section")
	}
}
