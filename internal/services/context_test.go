package services_test

import (
	"context"
	"testing"

	"cadenza/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithTerm(ctx, "allegro")
	ctx = services.WithEntryID(ctx, "entry-1")
	ctx = services.WithAttempt(ctx, 2)
	ctx = services.WithStage(ctx, "validating")
	ctx = services.WithRequestID(ctx, "req-123")

	if term, ok := services.TermFromContext(ctx); !ok || term != "allegro" {
		t.Fatalf("unexpected term: %v %v", term, ok)
	}
	if id, ok := services.EntryIDFromContext(ctx); !ok || id != "entry-1" {
		t.Fatalf("unexpected entry id: %v %v", id, ok)
	}
	if attempt, ok := services.AttemptFromContext(ctx); !ok || attempt != 2 {
		t.Fatalf("unexpected attempt: %v %v", attempt, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "validating" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithTerm(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.TermFromContext(ctx); ok {
		t.Fatal("expected no term value")
	}
	if _, ok := services.AttemptFromContext(ctx); ok {
		t.Fatal("expected no attempt value")
	}
}
