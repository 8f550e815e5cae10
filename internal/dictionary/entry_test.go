package dictionary

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseTermType(t *testing.T) {
	tests := []struct {
		input string
		want  TermType
	}{
		{"instrument", TypeInstrument},
		{" Tempo ", TypeTempo},
		{"opera", TypeWork},
		{"dynamics", TypeDynamic},
		{"", TypeGeneral},
		{"banjo-ish", TypeGeneral},
	}
	for _, tt := range tests {
		if got := ParseTermType(tt.input); got != tt.want {
			t.Errorf("ParseTermType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		score int
		want  ConfidenceLevel
	}{
		{100, ConfidenceHigh},
		{85, ConfidenceHigh},
		{84, ConfidenceMedium},
		{70, ConfidenceMedium},
		{69, ConfidenceLow},
		{0, ConfidenceLow},
	}
	for _, tt := range tests {
		if got := ConfidenceFor(tt.score); got != tt.want {
			t.Errorf("ConfidenceFor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestReferenceSetHelpers(t *testing.T) {
	var empty ReferenceSet
	if !empty.IsEmpty() || empty.HasWikipedia() || empty.Videos() != nil {
		t.Fatal("expected empty reference set")
	}
	refs := ReferenceSet{
		Wikipedia: &WikipediaReference{URL: "https://en.wikipedia.org/wiki/Piano"},
		Media:     &MediaReferences{YouTube: &YouTubeReferences{EducationalVideos: []Video{{URL: "https://youtube.com/x"}}}},
	}
	if refs.IsEmpty() || !refs.HasWikipedia() || len(refs.Videos()) != 1 {
		t.Fatalf("unexpected helpers on %+v", refs)
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	now := time.Now()
	original := Entry{
		ID:         "id",
		Definition: Definition{Concise: "c", Pronunciation: &Pronunciation{IPA: "ˈpjaːno"}},
		References: ReferenceSet{Wikipedia: &WikipediaReference{URL: "u"}},
		Metadata:   Metadata{RelatedTerms: []string{"forte"}, LastAccessed: &now},
	}
	clone := original.Clone()
	clone.Definition.Pronunciation.IPA = "changed"
	clone.References.Wikipedia.URL = "changed"
	clone.Metadata.RelatedTerms[0] = "changed"

	if original.Definition.IPA() != "ˈpjaːno" {
		t.Fatal("pronunciation aliased")
	}
	if original.References.Wikipedia.URL != "u" {
		t.Fatal("wikipedia reference aliased")
	}
	if original.Metadata.RelatedTerms[0] != "forte" {
		t.Fatal("related terms aliased")
	}
}

func TestDefinitionJSONOmitsEmptyOptionalFields(t *testing.T) {
	data, err := json.Marshal(Definition{Concise: "soft", Detailed: "played softly"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{"etymology", "pronunciation", "usage_example"} {
		if strings.Contains(string(data), key) {
			t.Fatalf("expected %q omitted from %s", key, data)
		}
	}
}
