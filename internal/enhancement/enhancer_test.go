package enhancement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cadenza/internal/dictionary"
	"cadenza/internal/enhancement"
	"cadenza/internal/references"
	"cadenza/internal/services"
	"cadenza/internal/testsupport"
	"cadenza/internal/validation"
)

var (
	created = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now     = time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
)

const improved = `{"concise": "A gradual increase in loudness.",
 "detailed": "Crescendo instructs performers to grow steadily louder over a passage, often marked with a hairpin.",
 "etymology": "Italian, literally 'growing'.",
 "pronunciation": {"ipa": "/krɪˈʃɛndoʊ/"},
 "usage_example": "The strings swell in a long crescendo.",
 "related_terms": ["diminuendo", "Dynamics"]}`

func existingEntry() dictionary.Entry {
	return dictionary.Entry{
		ID:             "5f0c7f4e-8a51-4c8e-9d5c-0c1d2e3f4a5b",
		Term:           "crescendo",
		NormalizedTerm: "crescendo",
		Type:           dictionary.TypeDynamic,
		Language:       "it",
		Definition: dictionary.Definition{
			Concise:  "Getting louder.",
			Detailed: "Play louder.",
		},
		References: dictionary.ReferenceSet{
			Wikipedia: &dictionary.WikipediaReference{URL: "https://en.wikipedia.org/wiki/Dynamics_(music)"},
		},
		Metadata:     dictionary.Metadata{RelatedTerms: []string{"dynamics"}},
		QualityScore: dictionary.QualityScore{Overall: 40},
		Version:      3,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func newEnhancer(completer *testsupport.ScriptedCompleter, searcher *testsupport.FakeSearcher) *enhancement.Enhancer {
	return enhancement.New(completer,
		references.New(completer, searcher),
		validation.New(completer),
		enhancement.WithClock(func() time.Time { return now }),
	)
}

func TestEnhanceReplacesWeakFieldsAndBumpsVersion(t *testing.T) {
	completer := testsupport.NewScriptedCompleter(
		testsupport.Text(improved),
		testsupport.Text(`{"score": 64, "issues": ["could cite notation"], "suggestions": []}`),
	)
	existing := existingEntry()

	out, err := newEnhancer(completer, testsupport.NewFakeSearcher()).Enhance(context.Background(), existing)
	if err != nil {
		t.Fatalf("Enhance returned error: %v", err)
	}
	if out.ID != existing.ID || !out.CreatedAt.Equal(created) {
		t.Fatalf("identity changed: id=%q created=%v", out.ID, out.CreatedAt)
	}
	if out.Version != existing.Version+1 {
		t.Fatalf("expected version %d, got %d", existing.Version+1, out.Version)
	}
	if !out.UpdatedAt.Equal(now) {
		t.Fatalf("expected updated_at refreshed, got %v", out.UpdatedAt)
	}
	if out.Definition.Concise != "A gradual increase in loudness." || out.Definition.IPA() != "/krɪˈʃɛndoʊ/" {
		t.Fatalf("expected improved definition, got %+v", out.Definition)
	}
	if out.QualityScore.Overall != 64 {
		t.Fatalf("expected single-pass score 64 even below threshold, got %d", out.QualityScore.Overall)
	}
	if got := out.Metadata.RelatedTerms; len(got) != 2 || got[0] != "dynamics" || got[1] != "diminuendo" {
		t.Fatalf("unexpected related terms %v", got)
	}
	if completer.Calls() != 2 {
		t.Fatalf("expected improve and validate calls only, got %d", completer.Calls())
	}
	if existing.Definition.Concise != "Getting louder." || existing.Version != 3 {
		t.Fatal("input entry was modified")
	}
}

func TestEnhancePreservesHumanVerifiedContent(t *testing.T) {
	existing := existingEntry()
	existing.QualityScore.HumanVerified = true
	completer := testsupport.NewScriptedCompleter(
		testsupport.Text(improved),
		testsupport.Text(`{"score": 90}`),
	)

	out, err := newEnhancer(completer, testsupport.NewFakeSearcher()).Enhance(context.Background(), existing)
	if err != nil {
		t.Fatalf("Enhance returned error: %v", err)
	}
	if out.Definition.Concise != "Getting louder." || out.Definition.Detailed != "Play louder." {
		t.Fatalf("verified fields overwritten: %+v", out.Definition)
	}
	if out.Definition.Etymology == "" || out.Definition.UsageExample == "" {
		t.Fatalf("expected empty fields to be filled: %+v", out.Definition)
	}
	if out.QualityScore.HumanVerified {
		t.Fatal("filled-in content is not human verified")
	}
}

func TestEnhanceHumanVerifiedUnchangedKeepsFlag(t *testing.T) {
	existing := existingEntry()
	existing.QualityScore.HumanVerified = true
	existing.Definition.Etymology = "Italian."
	existing.Definition.Pronunciation = &dictionary.Pronunciation{IPA: "/x/"}
	existing.Definition.UsageExample = "Example."
	completer := testsupport.NewScriptedCompleter(
		testsupport.Text(improved),
		testsupport.Text(`{"score": 92}`),
	)

	out, err := newEnhancer(completer, testsupport.NewFakeSearcher()).Enhance(context.Background(), existing)
	if err != nil {
		t.Fatalf("Enhance returned error: %v", err)
	}
	if out.Definition.Concise != existing.Definition.Concise ||
		out.Definition.Detailed != existing.Definition.Detailed ||
		out.Definition.Etymology != existing.Definition.Etymology ||
		out.Definition.UsageExample != existing.Definition.UsageExample {
		t.Fatalf("definition changed: %+v", out.Definition)
	}
	if out.Definition.IPA() != "/x/" {
		t.Fatalf("pronunciation overwritten: %q", out.Definition.IPA())
	}
	if !out.QualityScore.HumanVerified {
		t.Fatal("expected human_verified to survive an unchanged definition")
	}
}

func TestEnhanceFocusTargetsOnlyNamedFields(t *testing.T) {
	existing := existingEntry()
	existing.QualityScore.HumanVerified = true
	completer := testsupport.NewScriptedCompleter(
		testsupport.Text(improved),
		testsupport.Text(`{"score": 75}`),
	)

	out, err := newEnhancer(completer, testsupport.NewFakeSearcher()).Enhance(context.Background(), existing, "Concise")
	if err != nil {
		t.Fatalf("Enhance returned error: %v", err)
	}
	if out.Definition.Concise != "A gradual increase in loudness." {
		t.Fatalf("expected targeted concise to change, got %q", out.Definition.Concise)
	}
	if out.Definition.Detailed != "Play louder." {
		t.Fatalf("expected untargeted detailed to stay, got %q", out.Definition.Detailed)
	}
}

func TestEnhanceResolvesReferencesWhenMissingOrTargeted(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dictionary.Entry)
		focus  []string
	}{
		{"missing", func(e *dictionary.Entry) { e.References = dictionary.ReferenceSet{} }, nil},
		{"targeted", func(*dictionary.Entry) {}, []string{"references"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := existingEntry()
			tt.mutate(&existing)
			searcher := testsupport.NewFakeSearcher().Add("*", "crescendo", "Crescendo")
			completer := testsupport.NewScriptedCompleter(
				testsupport.Text(improved),
				testsupport.Text(`{"wikipedia_query": "crescendo", "video_query": "crescendo dynamics"}`),
				testsupport.Text(`{"score": 80}`),
			)

			out, err := newEnhancer(completer, searcher).Enhance(context.Background(), existing, tt.focus...)
			if err != nil {
				t.Fatalf("Enhance returned error: %v", err)
			}
			if out.References.Wikipedia == nil || out.References.Wikipedia.Title != "Crescendo" {
				t.Fatalf("expected resolved reference, got %#v", out.References.Wikipedia)
			}
			if len(searcher.Calls()) != 1 {
				t.Fatalf("expected one lookup, got %d", len(searcher.Calls()))
			}
		})
	}
}

func TestEnhanceKeepsPreviousScoreWhenValidationFails(t *testing.T) {
	completer := testsupport.NewScriptedCompleter(
		testsupport.Text(improved),
		testsupport.Failure("validator unavailable"),
	)
	existing := existingEntry()
	existing.QualityScore = dictionary.QualityScore{
		Overall:           40,
		DefinitionClarity: 35,
		LastAICheck:       created,
		ConfidenceLevel:   dictionary.ConfidenceLow,
	}

	out, err := newEnhancer(completer, testsupport.NewFakeSearcher()).Enhance(context.Background(), existing)
	if err != nil {
		t.Fatalf("Enhance returned error: %v", err)
	}
	if out.QualityScore.Overall != 40 || out.QualityScore.DefinitionClarity != 35 {
		t.Fatalf("expected previous score kept, got %+v", out.QualityScore)
	}
	if !out.QualityScore.LastAICheck.Equal(created) {
		t.Fatalf("last check moved to %v without an assessment", out.QualityScore.LastAICheck)
	}
	if out.Version != existing.Version+1 || out.Definition.Concise != "A gradual increase in loudness." {
		t.Fatalf("expected improved version %d, got v%d %+v", existing.Version+1, out.Version, out.Definition)
	}
}

func TestEnhanceFailures(t *testing.T) {
	tests := []struct {
		name  string
		reply testsupport.Reply
	}{
		{"service error", testsupport.Failure("gateway timeout")},
		{"unparseable", testsupport.Text("no idea")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := testsupport.NewScriptedCompleter(tt.reply)
			_, err := newEnhancer(completer, testsupport.NewFakeSearcher()).Enhance(context.Background(), existingEntry())
			if !errors.Is(err, services.ErrAIService) {
				t.Fatalf("expected ErrAIService, got %v", err)
			}
		})
	}
}

func TestEnhanceRejectsUnknownFocus(t *testing.T) {
	completer := testsupport.NewScriptedCompleter()
	_, err := newEnhancer(completer, testsupport.NewFakeSearcher()).Enhance(context.Background(), existingEntry(), "vibes")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if completer.Calls() != 0 {
		t.Fatal("expected no completion calls for invalid focus")
	}
}
