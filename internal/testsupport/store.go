package testsupport

import (
	"context"
	"testing"
	"time"

	"cadenza/internal/config"
	"cadenza/internal/dictionary"
	"cadenza/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewEntry builds a minimal persisted-shape entry for tests.
func NewEntry(id, term, language string, score int) *dictionary.Entry {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &dictionary.Entry{
		ID:             id,
		Term:           term,
		NormalizedTerm: dictionary.NormalizeTerm(term),
		Type:           dictionary.TypeGeneral,
		Language:       language,
		Definition: dictionary.Definition{
			Concise:  term + " in brief.",
			Detailed: term + " explained at length.",
		},
		QualityScore: dictionary.QualityScore{
			Overall:         score,
			LastAICheck:     now,
			ConfidenceLevel: dictionary.ConfidenceFor(score),
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MustCreate persists entry through repo or fails the test.
func MustCreate(t testing.TB, repo store.Repository, entry *dictionary.Entry) {
	t.Helper()
	if err := repo.Create(context.Background(), entry); err != nil {
		t.Fatalf("create %s: %v", entry.ID, err)
	}
}
