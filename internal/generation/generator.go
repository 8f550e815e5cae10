package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"cadenza/internal/dictionary"
	"cadenza/internal/language"
	"cadenza/internal/logging"
	"cadenza/internal/services"
	"cadenza/internal/services/llm"
	"cadenza/internal/validation"
)

const (
	DefaultQualityThreshold = 70
	DefaultMaxAttempts      = 3
	DefaultBatchWindow      = 5

	parseFailureIssue = "Draft response could not be parsed"
)

// State is a step of the generation loop.
type State string

const (
	StateDrafting   State = "drafting"
	StateResolving  State = "resolving"
	StateValidating State = "validating"
	StateAccepted   State = "accepted"
	StateRetrying   State = "retrying"
	StateFailed     State = "failed"
)

// ReferenceResolver builds references for a term.
type ReferenceResolver interface {
	Resolve(ctx context.Context, term string, termType dictionary.TermType, lang string) (dictionary.ReferenceSet, error)
}

// QualityValidator scores a candidate entry. It must not fail.
type QualityValidator interface {
	Validate(ctx context.Context, entry dictionary.Entry) validation.Result
}

// LanguageDetector classifies a term.
type LanguageDetector interface {
	Detect(term string) language.Detection
}

// Request is one term to generate.
type Request struct {
	Term     string
	Type     dictionary.TermType
	Language string
}

// Generator drafts, resolves and validates new entries.
type Generator struct {
	completer llm.Completer
	detector  LanguageDetector
	resolver  ReferenceResolver
	validator QualityValidator

	model           string
	options         llm.Options
	threshold       int
	maxAttempts     int
	window          int
	defaultLanguage string
	logger          *slog.Logger
	now             func() time.Time
	newID           func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithModel selects the drafting model; empty uses the client default.
func WithModel(model string) Option {
	return func(g *Generator) { g.model = strings.TrimSpace(model) }
}

// WithCompletionOptions overrides the drafting sampling options.
func WithCompletionOptions(opts llm.Options) Option {
	return func(g *Generator) { g.options = opts }
}

// WithQualityGate sets the acceptance threshold and attempt budget.
func WithQualityGate(threshold, maxAttempts int) Option {
	return func(g *Generator) {
		if threshold > 0 {
			g.threshold = threshold
		}
		if maxAttempts > 0 {
			g.maxAttempts = maxAttempts
		}
	}
}

// WithBatchWindow sets how many batch items run concurrently.
func WithBatchWindow(size int) Option {
	return func(g *Generator) {
		if size > 0 {
			g.window = size
		}
	}
}

// WithDefaultLanguage sets the language used when detection finds none.
func WithDefaultLanguage(code string) Option {
	return func(g *Generator) {
		if code = language.ToISO2(code); code != "" {
			g.defaultLanguage = code
		}
	}
}

// WithDetector overrides the language detector.
func WithDetector(detector LanguageDetector) Option {
	return func(g *Generator) {
		if detector != nil {
			g.detector = detector
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(newID func() string) Option {
	return func(g *Generator) {
		if newID != nil {
			g.newID = newID
		}
	}
}

// New constructs a Generator.
func New(completer llm.Completer, resolver ReferenceResolver, validator QualityValidator, opts ...Option) *Generator {
	g := &Generator{
		completer:       completer,
		detector:        language.NewDetector(),
		resolver:        resolver,
		validator:       validator,
		options:         llm.Options{MaxTokens: 1200, Temperature: 0.3, TopP: 0.9, JSON: true},
		threshold:       DefaultQualityThreshold,
		maxAttempts:     DefaultMaxAttempts,
		window:          DefaultBatchWindow,
		defaultLanguage: "en",
		logger:          logging.NewNop(),
		now:             time.Now,
		newID:           uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.options.Stream = false
	g.logger = logging.NewComponentLogger(g.logger, "generator")
	return g
}

// Threshold returns the acceptance score.
func (g *Generator) Threshold() int { return g.threshold }

// run is the per-call loop state. Nothing in it is shared across calls.
type run struct {
	req      Request
	attempt  int
	draft    Draft
	refs     dictionary.ReferenceSet
	result   validation.Result
	feedback *validation.Result
}

// Generate produces a new entry for term. lang may be empty, in which case the
// detector chooses.
func (g *Generator) Generate(ctx context.Context, term string, termType dictionary.TermType, lang string) (*dictionary.Entry, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, services.Wrap(services.ErrValidation, "generation", "generate", "term must not be empty", nil)
	}
	if termType == "" {
		termType = dictionary.TypeGeneral
	}
	ctx = services.WithTerm(ctx, term)
	r := &run{req: Request{Term: term, Type: termType, Language: g.ResolveLanguage(ctx, term, lang)}, attempt: 1}

	state := StateDrafting
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		actx := services.WithStage(services.WithAttempt(ctx, r.attempt), string(state))
		next, err := g.step(actx, state, r)
		if err != nil {
			return nil, err
		}
		switch next {
		case StateAccepted:
			return g.finalize(actx, r), nil
		case StateFailed:
			qerr := &QualityError{
				Term:        term,
				Attempts:    r.attempt,
				Threshold:   g.threshold,
				LastScore:   r.result.Score,
				Issues:      append([]string(nil), r.result.Issues...),
				Suggestions: append([]string(nil), r.result.Suggestions...),
			}
			logging.WarnWithContext(actx, g.logger, "generation exhausted attempt budget", "generation_failed",
				logging.Int("score", r.result.Score),
				logging.Int("threshold", g.threshold),
				logging.Strings("issues", qerr.Issues),
				logging.String(logging.FieldImpact, "no entry created"),
			)
			return nil, qerr
		}
		state = next
	}
}

// step executes state and returns the next one.
func (g *Generator) step(ctx context.Context, state State, r *run) (State, error) {
	logger := logging.WithContext(ctx, g.logger)
	switch state {
	case StateDrafting:
		draft, err := g.requestDraft(ctx, r)
		if err != nil {
			if !isParseFailure(err) {
				return StateFailed, err
			}
			logging.WarnWithContext(ctx, logger, "draft unparseable", "draft_parse_failed", logging.Error(err))
			r.result = validation.Result{Score: 0, Issues: []string{parseFailureIssue}, Suggestions: []string{"Respond with the JSON object only"}}
			return StateRetrying, nil
		}
		r.draft = draft
		return StateResolving, nil

	case StateResolving:
		refs, err := g.resolver.Resolve(ctx, r.req.Term, r.req.Type, r.req.Language)
		if err != nil {
			return StateFailed, err
		}
		r.refs = refs
		return StateValidating, nil

	case StateValidating:
		r.result = g.validator.Validate(ctx, g.assemble(r))
		accepted := r.result.Score >= g.threshold
		result, reason := "retry", "below_threshold"
		if accepted {
			result, reason = "accept", "meets_threshold"
		}
		attrs := append(logging.DecisionAttrs("quality_gate", result, reason),
			logging.Int("score", r.result.Score),
			logging.Int("threshold", g.threshold),
			logging.Strings("issues", r.result.Issues),
		)
		logger.Info("quality gate decision", logging.Args(attrs...)...)
		if accepted {
			return StateAccepted, nil
		}
		return StateRetrying, nil

	case StateRetrying:
		if r.attempt >= g.maxAttempts {
			return StateFailed, nil
		}
		feedback := r.result
		r.feedback = &feedback
		r.attempt++
		return StateDrafting, nil
	}
	return StateFailed, fmt.Errorf("generation: unexpected state %q", state)
}

func (g *Generator) requestDraft(ctx context.Context, r *run) (Draft, error) {
	if g.completer == nil {
		return Draft{}, services.Wrap(services.ErrAIService, "generation", "draft", "completion service not configured", nil)
	}
	completion, err := g.completer.Complete(ctx, draftPrompt(r.req, r.attempt, r.feedback), g.model, g.options)
	if err != nil {
		return Draft{}, services.Wrap(services.ErrAIService, "generation", "draft", fmt.Sprintf("attempt %d", r.attempt), err)
	}
	return ParseDraft(completion.Response)
}

func (g *Generator) assemble(r *run) dictionary.Entry {
	return dictionary.Entry{
		Term:           r.req.Term,
		NormalizedTerm: dictionary.NormalizeTerm(r.req.Term),
		Type:           r.req.Type,
		Language:       r.req.Language,
		Definition:     r.draft.Definition,
		References:     r.refs,
		Metadata: dictionary.Metadata{
			RelatedTerms: r.draft.RelatedTerms,
			Categories:   r.draft.Categories,
		},
	}
}

func (g *Generator) finalize(ctx context.Context, r *run) *dictionary.Entry {
	now := g.now().UTC()
	entry := g.assemble(r)
	entry.ID = g.newID()
	entry.Version = 1
	entry.CreatedAt = now
	entry.UpdatedAt = now
	entry.QualityScore = r.result.QualityScore(now)

	logging.WithContext(services.WithEntryID(ctx, entry.ID), g.logger).Info("entry generated",
		logging.String(logging.FieldEventType, "entry_generated"),
		logging.Int("score", entry.QualityScore.Overall),
		logging.String("confidence", string(entry.QualityScore.ConfidenceLevel)),
		logging.String("language", entry.Language),
		logging.String("wikipedia_url", wikipediaURL(entry.References)),
	)
	return &entry
}

// ResolveLanguage normalizes a declared language or, when none is given,
// detects one from the term and falls back to the default language.
func (g *Generator) ResolveLanguage(ctx context.Context, term, declared string) string {
	if declared = strings.TrimSpace(declared); declared != "" {
		if code := language.ToISO2(declared); code != "" {
			return code
		}
		return strings.ToLower(declared)
	}
	detection := g.detector.Detect(term)
	code := detection.Language
	if detection.IsNone() {
		code = g.defaultLanguage
	}
	logging.WithContext(ctx, g.logger).Debug("language detected",
		logging.String("language", code),
		logging.Float64("confidence", detection.Confidence),
		logging.String("method", string(detection.Method)),
	)
	return code
}

func wikipediaURL(refs dictionary.ReferenceSet) string {
	if !refs.HasWikipedia() {
		return ""
	}
	return refs.Wikipedia.URL
}
