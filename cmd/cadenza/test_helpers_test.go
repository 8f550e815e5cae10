package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cadenza/internal/config"
	"cadenza/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	completer  *testsupport.ScriptedCompleter
	searcher   *testsupport.FakeSearcher
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	homeDir := filepath.Join(testsupport.BaseDir(cfg), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("CADENZA_LLM_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	configPath := filepath.Join(homeDir, ".config", "cadenza", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		completer:  testsupport.NewScriptedCompleter(),
		searcher:   testsupport.NewFakeSearcher(),
	}
}

func (e *cliTestEnv) backends(*config.Config) (backends, error) {
	return backends{completer: e.completer, searcher: e.searcher}, nil
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[llm]
api_key = %q
base_url = %q

[wikipedia]
base_url = %q

[logging]
level = "error"
`,
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		"sk-or-test-0123456789",
		cfg.LLM.BaseURL,
		cfg.Wikipedia.BaseURL,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommandWith(env.backends)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}

// scriptPipeline answers every pipeline prompt; terms containing "broken"
// fail at the draft step.
func scriptPipeline(c *testsupport.ScriptedCompleter, score int) {
	c.On("Write a music dictionary entry", func(prompt string) testsupport.Reply {
		if strings.Contains(prompt, "broken") {
			return testsupport.Failure("upstream 503")
		}
		return testsupport.Text(`{"concise": "A keyboard instrument.", "detailed": "An instrument whose strings are struck by felt hammers.", "related_terms": ["pianoforte"]}`)
	}).
		On("Produce search phrases", func(string) testsupport.Reply {
			return testsupport.Text(`{"wikipedia_query": "Piano", "video_query": "piano demonstration"}`)
		}).
		On("You are reviewing", func(string) testsupport.Reply {
			return testsupport.Text(fmt.Sprintf(`{"score": %d, "definition_clarity": %d, "accuracy_verification": %d, "issues": [], "suggestions": []}`, score, score, score))
		}).
		On("Improve an existing music dictionary entry", func(string) testsupport.Reply {
			return testsupport.Text(`{"concise": "A keyboard instrument with hammers.", "detailed": "An acoustic keyboard instrument whose strings are struck by felt hammers, invented around 1700."}`)
		})
}
