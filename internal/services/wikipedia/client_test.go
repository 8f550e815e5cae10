package wikipedia_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cadenza/internal/services"
	"cadenza/internal/services/wikipedia"
)

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := wikipedia.New(" ", "ua"); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestSuggestSubstitutesLanguageAndParsesTuple(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/it/w/api.php" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("action") != "opensearch" || q.Get("search") != "allegro" || q.Get("limit") != "3" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("User-Agent") != "cadenza-test" {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte(`["allegro",["Allegro","Allegro (music)"],["",""],["https://it.wikipedia.org/wiki/Allegro","https://it.wikipedia.org/wiki/Allegro_(music)"]]`))
	}))
	t.Cleanup(server.Close)

	client, err := wikipedia.New(server.URL+"/{lang}", "cadenza-test")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	pages, err := client.Suggest(context.Background(), "allegro", 3, "it")
	if err != nil {
		t.Fatalf("Suggest returned error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[1].Title != "Allegro (music)" || pages[1].URL != "https://it.wikipedia.org/wiki/Allegro_(music)" {
		t.Fatalf("unexpected page %#v", pages[1])
	}
}

func TestSuggestEmptyResultIsNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["zzz",[],[],[]]`))
	}))
	t.Cleanup(server.Close)

	client, _ := wikipedia.New(server.URL, "")
	pages, err := client.Suggest(context.Background(), "zzz", 5, "")
	if err != nil {
		t.Fatalf("Suggest returned error: %v", err)
	}
	if len(pages) != 0 {
		t.Fatalf("expected no pages, got %v", pages)
	}
}

func TestSuggestHTTPErrorIsLookupUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client, _ := wikipedia.New(server.URL, "")
	_, err := client.Suggest(context.Background(), "fail", 5, "en")
	if !errors.Is(err, services.ErrLookupUnavailable) {
		t.Fatalf("expected ErrLookupUnavailable, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/api/rest_v1/page/summary/Sonata_form" {
			t.Errorf("unexpected path %s", r.URL.EscapedPath())
		}
		_, _ = w.Write([]byte(`{"title":"Sonata form","extract":"  Sonata form is a musical structure.  "}`))
	}))
	t.Cleanup(server.Close)

	client, _ := wikipedia.New(server.URL, "")
	summary, err := client.Summary(context.Background(), "Sonata form", "en")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.Extract != "Sonata form is a musical structure." {
		t.Fatalf("unexpected extract %q", summary.Extract)
	}
	if summary.URL != "https://en.wikipedia.org/wiki/Sonata_form" {
		t.Fatalf("unexpected url %q", summary.URL)
	}
}

func TestSummaryMissingPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client, _ := wikipedia.New(server.URL, "")
	summary, err := client.Summary(context.Background(), "Nope", "en")
	if err != nil || summary != nil {
		t.Fatalf("expected (nil, nil) for missing page, got %v, %v", summary, err)
	}
}

func TestPageURL(t *testing.T) {
	tests := []struct {
		lang, title, want string
	}{
		{"en", "Circle of fifths", "https://en.wikipedia.org/wiki/Circle_of_fifths"},
		{"", "Allegro", "https://en.wikipedia.org/wiki/Allegro"},
		{"DE", "Zwölftonmusik", "https://de.wikipedia.org/wiki/Zw%C3%B6lftonmusik"},
	}
	for _, tt := range tests {
		if got := wikipedia.PageURL(tt.lang, tt.title); got != tt.want {
			t.Errorf("PageURL(%q, %q) = %q, want %q", tt.lang, tt.title, got, tt.want)
		}
	}
}
