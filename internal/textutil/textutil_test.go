package textutil

import (
	"math"
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Allegro", "allegro"},
		{"  ÉTUDE ", "etude"},
		{"Crescéndo", "crescendo"},
		{"Straße", "straße"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.input); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Da   Capo ", "da capo"},
		{"Sforzando!", "sforzando"},
		{"\"Leitmotiv\"", "leitmotiv"},
		{"Café-concert", "cafe-concert"},
	}
	for _, tt := range tests {
		if got := NormalizeTerm(tt.input); got != tt.want {
			t.Errorf("NormalizeTerm(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"12345", true},
		{"3/4", true},
		{"1.5", true},
		{"", false},
		{"...", false},
		{"4'33", false},
		{"allegro", false},
	}
	for _, tt := range tests {
		if got := IsNumeric(tt.input); got != tt.want {
			t.Errorf("IsNumeric(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCosineSimilarityNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
	}{
		{"both nil", nil, nil},
		{"a nil", nil, NewFingerprint("magic flute")},
		{"b nil", NewFingerprint("magic flute"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); got != 0 {
				t.Errorf("CosineSimilarity() = %v, want 0", got)
			}
		})
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	got := TextSimilarity("The Magic Flute", "the magic flute")
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("TextSimilarity(identical) = %v, want 1.0", got)
	}
}

func TestCosineSimilarityRanksCloserTitleHigher(t *testing.T) {
	phrase := "The Magic Flute"
	exact := TextSimilarity(phrase, "The Magic Flute")
	partial := TextSimilarity(phrase, "The Magic Flute discography")
	unrelated := TextSimilarity(phrase, "Wolfgang Amadeus Mozart")
	if !(exact > partial && partial > unrelated) {
		t.Fatalf("unexpected ordering: exact=%v partial=%v unrelated=%v", exact, partial, unrelated)
	}
	if unrelated != 0 {
		t.Fatalf("expected no overlap for unrelated title, got %v", unrelated)
	}
}

func TestTokenizeDropsShortTokens(t *testing.T) {
	got := Tokenize("Do re mi: Ave Maria")
	want := []string{"ave", "maria"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize = %v, want %v", got, want)
		}
	}
}
