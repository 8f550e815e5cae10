package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cadenza/internal/dictionary"
	"cadenza/internal/services"
	"cadenza/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestConfigShowMasksAPIKey(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "sk-o****89")
	requireNotContains(t, out, "sk-or-test-0123456789")
	requireContains(t, out, "quality_threshold = 70")
}

func TestDetectCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "detect", "crescendo", "--json")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	var rows []struct {
		Term     string `json:"term"`
		Language string `json:"language"`
	}
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode detect output: %v\n%s", err, out)
	}
	if len(rows) != 1 || rows[0].Term != "crescendo" || rows[0].Language != "it" {
		t.Fatalf("unexpected detections %+v", rows)
	}

	out, _, err = runCLI(t, env, "detect", "crescendo")
	if err != nil {
		t.Fatalf("detect table: %v", err)
	}
	requireContains(t, out, "Italian (it)")
}

func TestDefineShowListAndEnhance(t *testing.T) {
	env := setupCLITestEnv(t)
	scriptPipeline(env.completer, 85)

	out, _, err := runCLI(t, env, "define", "piano", "--type", "instrument", "--lang", "it", "--json")
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	var entry dictionary.Entry
	if err := json.Unmarshal([]byte(out), &entry); err != nil {
		t.Fatalf("decode entry: %v\n%s", err, out)
	}
	if len(entry.ID) != 36 || entry.Language != "it" || entry.Type != dictionary.TypeInstrument {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.QualityScore.Overall != 85 {
		t.Fatalf("score = %d, want 85", entry.QualityScore.Overall)
	}
	if env.completer.Calls() != 3 {
		t.Fatalf("expected 3 completion calls, got %d", env.completer.Calls())
	}

	out, _, err = runCLI(t, env, "show", "piano", "--lang", "it")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "== piano ==")
	requireContains(t, out, "A keyboard instrument.")
	requireContains(t, out, "https://it.wikipedia.org/wiki/Piano (unverified)")

	out, _, err = runCLI(t, env, "define", "piano", "--lang", "it")
	if err != nil {
		t.Fatalf("second define: %v", err)
	}
	requireNotContains(t, out, "Generated new entry")
	if env.completer.Calls() != 3 {
		t.Fatalf("stored hit should not call the completer, got %d calls", env.completer.Calls())
	}

	out, _, err = runCLI(t, env, "list", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var summaries []entrySummary
	if err := json.Unmarshal([]byte(out), &summaries); err != nil {
		t.Fatalf("decode list: %v\n%s", err, out)
	}
	if len(summaries) != 1 || summaries[0].ID != entry.ID || summaries[0].Searches != 1 {
		t.Fatalf("unexpected list %+v", summaries)
	}

	out, _, err = runCLI(t, env, "enhance", entry.ID, "--json")
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	var improved dictionary.Entry
	if err := json.Unmarshal([]byte(out), &improved); err != nil {
		t.Fatalf("decode enhanced entry: %v\n%s", err, out)
	}
	if improved.ID != entry.ID || improved.Version != 2 {
		t.Fatalf("unexpected enhanced entry id=%s version=%d", improved.ID, improved.Version)
	}
	if improved.Definition.Concise != "A keyboard instrument with hammers." {
		t.Fatalf("concise not improved: %q", improved.Definition.Concise)
	}
}

func TestShowMissingEntry(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "show", "nonexistent")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnhanceBelowSweep(t *testing.T) {
	env := setupCLITestEnv(t)
	scriptPipeline(env.completer, 85)

	st := testsupport.MustOpenStore(t, env.cfg)
	testsupport.MustCreate(t, st, testsupport.NewEntry("weak-1", "Tremolo", "it", 40))
	testsupport.MustCreate(t, st, testsupport.NewEntry("strong-1", "Fugue", "en", 95))

	out, _, err := runCLI(t, env, "enhance", "--below", "70", "--json")
	if err != nil {
		t.Fatalf("enhance --below: %v", err)
	}
	var report sweepReportJSON
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode sweep: %v\n%s", err, out)
	}
	if report.Examined != 1 || len(report.Enhanced) != 1 || report.Enhanced[0].ID != "weak-1" {
		t.Fatalf("unexpected sweep report %+v", report)
	}
	if report.Enhanced[0].Version != 2 || report.Enhanced[0].Score != 85 {
		t.Fatalf("unexpected enhanced record %+v", report.Enhanced[0])
	}

	if _, _, err := runCLI(t, env, "enhance"); err == nil {
		t.Fatal("expected error without id or --below")
	}
}

func TestBatchCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	scriptPipeline(env.completer, 85)

	input := filepath.Join(t.TempDir(), "terms.txt")
	testsupport.WriteLines(t, input,
		"# strings",
		"piano,instrument,it",
		"",
		"broken,general,en",
	)

	out, _, err := runCLI(t, env, "batch", input, "--skip-preflight", "--json")
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	var items []batchItemJSON
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("decode batch output: %v\n%s", err, out)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !items[0].OK || items[0].Term != "piano" || items[0].Language != "it" {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if items[1].OK || items[1].ErrorKind != "ai_service" {
		t.Fatalf("unexpected second item %+v", items[1])
	}

	out, _, err = runCLI(t, env, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "piano")
	requireNotContains(t, out, "broken")

	testsupport.WriteLines(t, input, "piano,instrument,it")
	calls := env.completer.Calls()
	out, _, err = runCLI(t, env, "batch", input, "--skip-preflight")
	if err != nil {
		t.Fatalf("second batch: %v", err)
	}
	requireContains(t, out, "existing")
	requireContains(t, out, "0 generated, 1 existing, 0 failed")
	if env.completer.Calls() != calls {
		t.Fatalf("stored term regenerated: %d completion calls, want %d", env.completer.Calls(), calls)
	}
}

func TestBatchCommandFailsWhenEveryItemFails(t *testing.T) {
	env := setupCLITestEnv(t)
	scriptPipeline(env.completer, 85)

	input := filepath.Join(t.TempDir(), "terms.txt")
	testsupport.WriteLines(t, input, "broken one", "broken two")

	_, _, err := runCLI(t, env, "batch", input, "--skip-preflight")
	if err == nil || !strings.Contains(err.Error(), "all 2 batch items failed") {
		t.Fatalf("expected all-failed error, got %v", err)
	}
}

func TestStatusOffline(t *testing.T) {
	env := setupCLITestEnv(t)
	st := testsupport.MustOpenStore(t, env.cfg)
	testsupport.MustCreate(t, st, testsupport.NewEntry("weak-1", "Tremolo", "it", 40))

	out, _, err := runCLI(t, env, "status", "--offline")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Entries:")
	requireContains(t, out, "[INFO] 1")
	requireContains(t, out, "[WARN] 1 (< 70)")
	requireContains(t, out, "Skipped (--offline)")
}
