package generation_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"cadenza/internal/dictionary"
	"cadenza/internal/generation"
	"cadenza/internal/testsupport"
)

func TestGenerateBatchIsolatesFailures(t *testing.T) {
	var drafts atomic.Int32
	completer := testsupport.NewScriptedCompleter().
		On("Write a music dictionary entry", func(prompt string) testsupport.Reply {
			drafts.Add(1)
			if strings.Contains(prompt, "Term: broken") {
				return testsupport.Failure("upstream 503")
			}
			return testsupport.Text(`{"concise": "A term.", "detailed": "A longer description of the term."}`)
		}).
		On("Produce search phrases", func(string) testsupport.Reply {
			return testsupport.Text(`{"wikipedia_query": "", "video_query": ""}`)
		}).
		On("You are reviewing", func(string) testsupport.Reply {
			return testsupport.Text(`{"score": 88, "issues": [], "suggestions": []}`)
		})
	gen := newGenerator(completer, testsupport.NewFakeSearcher(), generation.WithBatchWindow(5))

	terms := []string{"allegro", "forte", "broken", "legato", "staccato", "crescendo", "adagio"}
	requests := make([]generation.Request, len(terms))
	for i, term := range terms {
		requests[i] = generation.Request{Term: term, Type: dictionary.TypeGeneral}
	}

	results := gen.GenerateBatch(context.Background(), requests)
	if len(results) != len(terms) {
		t.Fatalf("expected %d results, got %d", len(terms), len(results))
	}
	for i, result := range results {
		if result.Request.Term != terms[i] {
			t.Fatalf("result %d out of order: %q", i, result.Request.Term)
		}
		if terms[i] == "broken" {
			if result.OK() {
				t.Fatal("expected broken item to fail")
			}
			if result.ErrorKind != "ai_service" || !strings.Contains(result.ErrorMessage, "upstream 503") {
				t.Fatalf("unexpected failure record %+v", result)
			}
			continue
		}
		if !result.OK() {
			t.Fatalf("item %q failed: %v", terms[i], result.Err)
		}
	}
	if drafts.Load() != int32(len(terms)) {
		t.Fatalf("expected one draft per term, got %d", drafts.Load())
	}
}

func TestGenerateBatchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := newGenerator(testsupport.NewScriptedCompleter(), testsupport.NewFakeSearcher())

	results := gen.GenerateBatch(ctx, []generation.Request{{Term: "a"}, {Term: "b"}})
	for _, result := range results {
		if result.OK() || result.ErrorKind != "canceled" {
			t.Fatalf("expected canceled record, got %+v", result)
		}
	}
}
