package references

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"cadenza/internal/dictionary"
	"cadenza/internal/logging"
	"cadenza/internal/services/llm"
	"cadenza/internal/services/wikipedia"
)

const (
	// DefaultCandidateLimit is the number of pages requested per lookup.
	DefaultCandidateLimit = 5
	youtubeSearchURL      = "https://www.youtube.com/results?search_query="
	englishLanguage       = "en"
)

// Resolver builds ReferenceSets.
type Resolver struct {
	completer     llm.Completer
	searcher      wikipedia.Searcher
	model         string
	options       llm.Options
	selectOptions llm.Options
	limit         int
	logger        *slog.Logger
	now           func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithModel selects the completion model; empty uses the client default.
func WithModel(model string) Option {
	return func(r *Resolver) { r.model = strings.TrimSpace(model) }
}

// WithCandidateLimit sets how many pages each lookup requests.
func WithCandidateLimit(limit int) Option {
	return func(r *Resolver) {
		if limit > 0 {
			r.limit = limit
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock overrides the verification timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// New constructs a Resolver.
func New(completer llm.Completer, searcher wikipedia.Searcher, opts ...Option) *Resolver {
	r := &Resolver{
		completer:     completer,
		searcher:      searcher,
		options:       llm.Options{MaxTokens: 200, Temperature: 0.1, JSON: true},
		selectOptions: llm.Options{MaxTokens: 10, Temperature: 0},
		limit:         DefaultCandidateLimit,
		logger:        logging.NewNop(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "references")
	return r
}

// Resolve returns the references for term. Only context cancellation is
// reported as an error; every other failure degrades.
func (r *Resolver) Resolve(ctx context.Context, term string, termType dictionary.TermType, lang string) (dictionary.ReferenceSet, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = englishLanguage
	}
	phrases := r.phrases(ctx, term, termType)
	if err := ctx.Err(); err != nil {
		return dictionary.ReferenceSet{}, err
	}

	wiki := r.resolveWikipedia(ctx, term, phrases, termType, lang)
	if err := ctx.Err(); err != nil {
		return dictionary.ReferenceSet{}, err
	}

	return dictionary.ReferenceSet{
		Wikipedia: wiki,
		Media: &dictionary.MediaReferences{
			YouTube: &dictionary.YouTubeReferences{
				EducationalVideos: []dictionary.Video{VideoSearch(phrases.Video)},
			},
		},
	}, nil
}

// VideoSearch builds a YouTube search reference for phrase.
func VideoSearch(phrase string) dictionary.Video {
	phrase = strings.TrimSpace(phrase)
	return dictionary.Video{
		URL:   youtubeSearchURL + url.QueryEscape(phrase),
		Title: phrase,
		Query: phrase,
	}
}

// FallbackURL is the deterministic page URL used when lookup yields nothing.
func FallbackURL(phrase, lang string) string {
	return wikipedia.PageURL(lang, phrase)
}

func (r *Resolver) resolveWikipedia(ctx context.Context, term string, phrases Phrases, termType dictionary.TermType, lang string) *dictionary.WikipediaReference {
	logger := logging.WithContext(ctx, r.logger)
	phrase := phrases.Wikipedia
	pages, lookupLang := r.lookup(ctx, phrase, lang)
	if len(pages) == 0 {
		fallback := FallbackURL(phrase, lang)
		attrs := append(logging.DecisionAttrs("reference_lookup", "fallback_url", "no_candidates"),
			logging.String("wikipedia_url", fallback),
			logging.String("search_phrase", phrase),
		)
		logger.Info("reference lookup decision", logging.Args(attrs...)...)
		return &dictionary.WikipediaReference{
			URL:          fallback,
			Title:        phrase,
			LastVerified: r.now().UTC(),
			Fallback:     true,
		}
	}

	chosen := r.choose(ctx, term, phrase, termType, orderCandidates(pages, termType, phrases.Composer))
	ref := &dictionary.WikipediaReference{
		URL:          chosen.URL,
		Title:        chosen.Title,
		LastVerified: r.now().UTC(),
	}
	if ref.URL == "" {
		ref.URL = wikipedia.PageURL(lookupLang, chosen.Title)
	}
	summary, err := r.searcher.Summary(ctx, chosen.Title, lookupLang)
	if err != nil {
		logger.Debug("summary unavailable", logging.String("selected_title", chosen.Title), logging.Error(err))
	} else if summary != nil {
		ref.Extract = summary.Extract
	}
	return ref
}

// lookup queries the lang edition, then English once when lang is not English
// and the first lookup failed or came back empty.
func (r *Resolver) lookup(ctx context.Context, phrase, lang string) ([]wikipedia.Page, string) {
	logger := logging.WithContext(ctx, r.logger)
	if r.searcher == nil {
		return nil, lang
	}
	pages, err := r.searcher.Suggest(ctx, phrase, r.limit, lang)
	if err != nil {
		logging.WarnWithContext(ctx, logger, "reference lookup failed", "lookup_unavailable",
			logging.String("search_phrase", phrase),
			logging.String("language", lang),
			logging.Error(err),
		)
	}
	if len(pages) > 0 || lang == englishLanguage || ctx.Err() != nil {
		return pages, lang
	}

	pages, err = r.searcher.Suggest(ctx, phrase, r.limit, englishLanguage)
	if err != nil {
		logging.WarnWithContext(ctx, logger, "english reference lookup failed", "lookup_unavailable",
			logging.String("search_phrase", phrase),
			logging.Error(err),
		)
		return nil, lang
	}
	return pages, englishLanguage
}
