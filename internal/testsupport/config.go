package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"cadenza/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.LLM.APIKey = "test"
	cfgVal.LLM.BaseURL = "http://127.0.0.1:0/chat"
	cfgVal.Wikipedia.BaseURL = "http://127.0.0.1:0"
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLLMEndpoint points the completion client at url.
func WithLLMEndpoint(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = url
	}
}

// WithWikipediaEndpoint points the lookup client at url.
func WithWikipediaEndpoint(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Wikipedia.BaseURL = url
	}
}

// WithQualityGate overrides the threshold and attempt budget.
func WithQualityGate(threshold, attempts int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Generation.QualityThreshold = threshold
		b.cfg.Generation.MaxAttempts = attempts
	}
}

// WithDataDir moves the data directory under the temp base.
func WithDataDir(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.DataDir = filepath.Join(b.baseDir, name)
	}
}

// BaseDir returns the temp base directory used for the config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

// EnsureDirs creates the configured data and log directories.
func EnsureDirs(t testing.TB, cfg *config.Config) {
	t.Helper()
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
}
