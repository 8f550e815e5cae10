package references_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cadenza/internal/dictionary"
	"cadenza/internal/references"
	"cadenza/internal/testsupport"
)

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func newResolver(completer *testsupport.ScriptedCompleter, searcher *testsupport.FakeSearcher) *references.Resolver {
	return references.New(completer, searcher, references.WithClock(func() time.Time { return fixedNow }))
}

func TestResolveSelectsCanonicalPageByOrdinal(t *testing.T) {
	searcher := testsupport.NewFakeSearcher().Add("*", "The Magic Flute",
		"The Magic Flute",
		"The Magic Flute (1975 film)",
		"The Magic Flute (disambiguation)",
	)
	searcher.Extracts["The Magic Flute"] = "The Magic Flute is an opera in two acts."
	completer := testsupport.NewScriptedCompleter(
		testsupport.Text(`{"wikipedia_query": "Mozart's The Magic Flute", "video_query": "The Magic Flute opera explained", "composer": "Wolfgang Amadeus Mozart"}`),
		testsupport.Text("1"),
	)

	refs, err := newResolver(completer, searcher).Resolve(context.Background(), "The Magic Flute", dictionary.TypeWork, "en")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if refs.Wikipedia == nil || refs.Wikipedia.Title != "The Magic Flute" {
		t.Fatalf("expected canonical page, got %#v", refs.Wikipedia)
	}
	if refs.Wikipedia.URL != "https://en.wikipedia.org/wiki/The_Magic_Flute" {
		t.Fatalf("unexpected url %q", refs.Wikipedia.URL)
	}
	if refs.Wikipedia.Extract != "The Magic Flute is an opera in two acts." {
		t.Fatalf("unexpected extract %q", refs.Wikipedia.Extract)
	}
	if refs.Wikipedia.Fallback {
		t.Fatal("looked-up page must not be marked as fallback")
	}
	if !refs.Wikipedia.LastVerified.Equal(fixedNow) {
		t.Fatalf("unexpected verification time %v", refs.Wikipedia.LastVerified)
	}
	calls := searcher.Calls()
	if len(calls) != 1 || calls[0].Term != "The Magic Flute" || calls[0].Limit != 5 {
		t.Fatalf("expected composer-free lookup with limit 5, got %+v", calls)
	}
	if completer.Calls() != 2 {
		t.Fatalf("expected phrase and selection calls, got %d", completer.Calls())
	}
	if !strings.Contains(completer.Prompts()[1], "2. The Magic Flute (1975 film)") {
		t.Fatalf("selection prompt missing ranked candidates: %s", completer.Prompts()[1])
	}
	videos := refs.Videos()
	if len(videos) != 1 || videos[0].URL != "https://www.youtube.com/results?search_query=The+Magic+Flute+opera+explained" {
		t.Fatalf("unexpected videos %+v", videos)
	}
}

func TestResolveSelectionDefaultsToFirst(t *testing.T) {
	for _, answer := range []string{"7", "none of them", "0"} {
		searcher := testsupport.NewFakeSearcher().Add("*", "forte", "Dynamics (music)", "Forte (band)")
		completer := testsupport.NewScriptedCompleter(
			testsupport.Text(`{"wikipedia_query": "forte", "video_query": "forte dynamics"}`),
			testsupport.Text(answer),
		)
		refs, err := newResolver(completer, searcher).Resolve(context.Background(), "forte", dictionary.TypeDynamic, "it")
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if refs.Wikipedia.Title != "Dynamics (music)" {
			t.Fatalf("answer %q: expected first candidate, got %q", answer, refs.Wikipedia.Title)
		}
	}
}

func TestResolveSingleCandidateSkipsSelection(t *testing.T) {
	searcher := testsupport.NewFakeSearcher().Add("en", "piano", "Piano")
	completer := testsupport.NewScriptedCompleter(testsupport.Text(`{"wikipedia_query": "piano", "video_query": "piano"}`))

	refs, err := newResolver(completer, searcher).Resolve(context.Background(), "piano", dictionary.TypeInstrument, "en")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if refs.Wikipedia.Title != "Piano" {
		t.Fatalf("unexpected page %q", refs.Wikipedia.Title)
	}
	if completer.Calls() != 1 {
		t.Fatalf("expected only the phrase call, got %d", completer.Calls())
	}
}

func TestResolveFailingLookupBuildsDeterministicURL(t *testing.T) {
	searcher := testsupport.NewFakeSearcher()
	searcher.Err = errors.New("connection refused")
	completer := testsupport.NewScriptedCompleter(testsupport.Failure("timeout"))

	refs, err := newResolver(completer, searcher).Resolve(context.Background(), "Bach", dictionary.TypeComposer, "de")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if refs.Wikipedia == nil || refs.Wikipedia.URL != "https://de.wikipedia.org/wiki/Bach_composer" {
		t.Fatalf("unexpected fallback reference %#v", refs.Wikipedia)
	}
	if !refs.Wikipedia.Fallback {
		t.Fatal("expected fallback flag")
	}
	calls := searcher.Calls()
	if len(calls) != 2 || calls[0].Lang != "de" || calls[1].Lang != "en" {
		t.Fatalf("expected de lookup then one en retry, got %+v", calls)
	}
}

func TestResolveRetriesEnglishOnEmptyResult(t *testing.T) {
	searcher := testsupport.NewFakeSearcher().Add("en", "allegro", "Tempo")
	completer := testsupport.NewScriptedCompleter(testsupport.Text(`{"wikipedia_query": "allegro", "video_query": "allegro tempo"}`))

	refs, err := newResolver(completer, searcher).Resolve(context.Background(), "allegro", dictionary.TypeTempo, "it")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if refs.Wikipedia.URL != "https://en.wikipedia.org/wiki/Tempo" || refs.Wikipedia.Fallback {
		t.Fatalf("expected english page, got %#v", refs.Wikipedia)
	}
}

func TestResolveSelectionFailureRanksBySimilarity(t *testing.T) {
	searcher := testsupport.NewFakeSearcher().Add("*", "sonata form", "Sonata", "Sonata form", "Sonatina")
	completer := testsupport.NewScriptedCompleter(
		testsupport.Text(`{"wikipedia_query": "sonata form", "video_query": "sonata form analysis"}`),
		testsupport.Failure("rate limited"),
	)

	refs, err := newResolver(completer, searcher).Resolve(context.Background(), "sonata form", dictionary.TypeForm, "en")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if refs.Wikipedia.Title != "Sonata form" {
		t.Fatalf("expected most similar title, got %q", refs.Wikipedia.Title)
	}
}

func TestResolveDemotesAttributedTitlesForWorks(t *testing.T) {
	searcher := testsupport.NewFakeSearcher().Add("*", "Messiah", "Handel's Messiah", "Messiah (Handel)", "Messiah")
	completer := testsupport.NewScriptedCompleter(
		testsupport.Text(`{"wikipedia_query": "Messiah", "video_query": "Messiah oratorio", "composer": "George Frideric Handel"}`),
		testsupport.Text("1"),
	)

	refs, err := newResolver(completer, searcher).Resolve(context.Background(), "Messiah", dictionary.TypeWork, "en")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if refs.Wikipedia.Title != "Messiah" {
		t.Fatalf("expected title without composer, got %q", refs.Wikipedia.Title)
	}
}

func TestResolveKeepsTitleNamingAnotherComposer(t *testing.T) {
	const title = "Variations on a Theme by Haydn"
	searcher := testsupport.NewFakeSearcher().Add("*", title, title, "Variations on a Theme")
	completer := testsupport.NewScriptedCompleter(
		testsupport.Text(`{"wikipedia_query": "Variations on a Theme by Haydn", "video_query": "Brahms Haydn variations", "composer": "Johannes Brahms"}`),
		testsupport.Text("1"),
	)

	refs, err := newResolver(completer, searcher).Resolve(context.Background(), title, dictionary.TypeWork, "en")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	calls := searcher.Calls()
	if len(calls) != 1 || calls[0].Term != title {
		t.Fatalf("expected lookup of the full title, got %+v", calls)
	}
	if refs.Wikipedia.Title != title {
		t.Fatalf("expected %q to stay first, got %q", title, refs.Wikipedia.Title)
	}
	if !strings.Contains(completer.Prompts()[1], "1. "+title) {
		t.Fatalf("selection prompt reordered candidates: %s", completer.Prompts()[1])
	}
}

func TestResolveCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newResolver(testsupport.NewScriptedCompleter(), testsupport.NewFakeSearcher()).
		Resolve(ctx, "piano", dictionary.TypeInstrument, "en")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
