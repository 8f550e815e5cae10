package testsupport

import (
	"context"
	"strings"
	"sync"

	"cadenza/internal/services"
	"cadenza/internal/services/wikipedia"
)

// SuggestCall records one Suggest invocation.
type SuggestCall struct {
	Term  string
	Limit int
	Lang  string
}

// FakeSearcher is an in-memory wikipedia.Searcher. Pages are keyed by
// lowercase "lang|term"; a key of "*|term" matches any language.
type FakeSearcher struct {
	mu         sync.Mutex
	Pages      map[string][]wikipedia.Page
	Extracts   map[string]string
	Err        error
	SummaryErr error
	calls      []SuggestCall
}

var _ wikipedia.Searcher = (*FakeSearcher)(nil)

// NewFakeSearcher returns an empty searcher.
func NewFakeSearcher() *FakeSearcher {
	return &FakeSearcher{
		Pages:    make(map[string][]wikipedia.Page),
		Extracts: make(map[string]string),
	}
}

// Add registers titles returned for term in lang ("*" for any).
func (f *FakeSearcher) Add(lang, term string, titles ...string) *FakeSearcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	pages := make([]wikipedia.Page, 0, len(titles))
	for _, title := range titles {
		pageLang := lang
		if pageLang == "*" {
			pageLang = "en"
		}
		pages = append(pages, wikipedia.Page{Title: title, URL: wikipedia.PageURL(pageLang, title)})
	}
	f.Pages[fakeKey(lang, term)] = pages
	return f
}

// Suggest implements wikipedia.Searcher.
func (f *FakeSearcher) Suggest(ctx context.Context, term string, limit int, lang string) ([]wikipedia.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, SuggestCall{Term: term, Limit: limit, Lang: lang})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, services.Wrap(services.ErrLookupUnavailable, "wikipedia", "suggest", term, f.Err)
	}
	pages, ok := f.Pages[fakeKey(lang, term)]
	if !ok {
		pages = f.Pages[fakeKey("*", term)]
	}
	if limit > 0 && len(pages) > limit {
		pages = pages[:limit]
	}
	return append([]wikipedia.Page(nil), pages...), nil
}

// Summary implements wikipedia.Searcher.
func (f *FakeSearcher) Summary(ctx context.Context, title, lang string) (*wikipedia.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SummaryErr != nil {
		return nil, services.Wrap(services.ErrLookupUnavailable, "wikipedia", "summary", title, f.SummaryErr)
	}
	extract, ok := f.Extracts[title]
	if !ok {
		return nil, nil
	}
	return &wikipedia.Summary{Title: title, Extract: extract, URL: wikipedia.PageURL(lang, title)}, nil
}

// Calls returns every Suggest invocation in order.
func (f *FakeSearcher) Calls() []SuggestCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SuggestCall(nil), f.calls...)
}

func fakeKey(lang, term string) string {
	return strings.ToLower(strings.TrimSpace(lang)) + "|" + strings.ToLower(strings.TrimSpace(term))
}
