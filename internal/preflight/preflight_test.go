package preflight

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"cadenza/internal/config"
	"cadenza/internal/testsupport"
)

func completionServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"demo","choices":[{"message":{"content":` + content + `}}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckLLM_OK(t *testing.T) {
	srv := completionServer(t, http.StatusOK, `"{\"ok\":true}"`)
	result := CheckLLM(context.Background(), "Completion API", config.LLMConfig{APIKey: "key", BaseURL: srv.URL, Model: "demo"})
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckLLM_SingleAttempt(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	result := CheckLLM(context.Background(), "Completion API", config.LLMConfig{APIKey: "key", BaseURL: srv.URL, Model: "demo"})
	if result.Passed {
		t.Fatal("expected failure for 502")
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", hits.Load())
	}
}

func TestCheckLLM_MissingKey(t *testing.T) {
	result := CheckLLM(context.Background(), "Completion API", config.LLMConfig{BaseURL: "http://localhost"})
	if result.Passed || result.Detail != "API key missing" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckWikipedia(t *testing.T) {
	cases := []struct {
		name     string
		searcher *testsupport.FakeSearcher
		pass     bool
	}{
		{name: "results", searcher: testsupport.NewFakeSearcher().Add("en", "music", "Music"), pass: true},
		{name: "empty", searcher: testsupport.NewFakeSearcher(), pass: true},
		{name: "unavailable", searcher: func() *testsupport.FakeSearcher {
			s := testsupport.NewFakeSearcher()
			s.Err = errors.New("connection refused")
			return s
		}(), pass: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := CheckWikipedia(context.Background(), "Wikipedia", tc.searcher, "en")
			if result.Passed != tc.pass {
				t.Fatalf("passed = %v, want %v (%s)", result.Passed, tc.pass, result.Detail)
			}
		})
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_AllReachable(t *testing.T) {
	llmSrv := completionServer(t, http.StatusOK, `"{\"ok\":true}"`)
	wikiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/en/w/api.php") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`["music",["Music"],[""],["https://en.wikipedia.org/wiki/Music"]]`))
	}))
	defer wikiSrv.Close()

	cfg := testsupport.NewConfig(t,
		testsupport.WithLLMEndpoint(llmSrv.URL),
		testsupport.WithWikipediaEndpoint(wikiSrv.URL+"/{lang}"),
	)
	testsupport.EnsureDirs(t, cfg)

	results := RunAll(context.Background(), cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_ReportsFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.LLM.APIKey = ""

	results := RunAll(context.Background(), cfg)
	failed := Failed(results)
	names := make(map[string]bool, len(failed))
	for _, r := range failed {
		names[r.Name] = true
	}
	if !names["Data directory"] || !names["Completion API"] {
		t.Fatalf("expected data directory and completion failures, got %+v", failed)
	}
}
