package language

import "testing"

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"it", "it"},
		{"IT", "it"},
		{"ita", "it"},
		{"ger", "de"},
		{"fre", "fr"},
		{"lat", "la"},
		{"Latin", "la"},
		{"español", "es"},
		{"english", "en"},
		{"pt", ""},
		{"", ""},
		{" ", ""},
	}
	for _, tt := range tests {
		if got := ToISO2(tt.input); got != tt.expected {
			t.Errorf("ToISO2(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestCodesFollowDetectionPriority(t *testing.T) {
	want := []string{"it", "de", "fr", "la", "en", "es"}
	got := Codes()
	if len(got) != len(want) {
		t.Fatalf("Codes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Codes() = %v, want %v", got, want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"it", "Italian"},
		{"lat", "Latin"},
		{"xx", "XX"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.input); got != tt.expected {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("de") || !IsSupported("French") {
		t.Fatal("expected de and French to be supported")
	}
	if IsSupported("ja") {
		t.Fatal("expected ja to be unsupported")
	}
}
