package enhancement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cadenza/internal/dictionary"
	"cadenza/internal/generation"
	"cadenza/internal/language"
	"cadenza/internal/logging"
	"cadenza/internal/services"
	"cadenza/internal/services/llm"
)

// Enhancer improves stored entries.
type Enhancer struct {
	completer llm.Completer
	resolver  generation.ReferenceResolver
	validator generation.QualityValidator
	model     string
	options   llm.Options
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithModel selects the completion model; empty uses the client default.
func WithModel(model string) Option {
	return func(e *Enhancer) { e.model = strings.TrimSpace(model) }
}

// WithCompletionOptions overrides the sampling options.
func WithCompletionOptions(opts llm.Options) Option {
	return func(e *Enhancer) { e.options = opts }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enhancer) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Enhancer) {
		if now != nil {
			e.now = now
		}
	}
}

// New constructs an Enhancer from the generation building blocks.
func New(completer llm.Completer, resolver generation.ReferenceResolver, validator generation.QualityValidator, opts ...Option) *Enhancer {
	e := &Enhancer{
		completer: completer,
		resolver:  resolver,
		validator: validator,
		options:   llm.Options{MaxTokens: 1200, Temperature: 0.3, TopP: 0.9, JSON: true},
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.options.Stream = false
	e.logger = logging.NewComponentLogger(e.logger, "enhancer")
	return e
}

// Enhance returns an improved copy of existing. The input is not modified.
// Completion failures, including unparseable answers, carry services.ErrAIService.
func (e *Enhancer) Enhance(ctx context.Context, existing dictionary.Entry, focusAreas ...string) (*dictionary.Entry, error) {
	if strings.TrimSpace(existing.ID) == "" {
		return nil, services.Wrap(services.ErrValidation, "enhancement", "enhance", "entry has no id", nil)
	}
	ctx = services.WithEntryID(services.WithTerm(ctx, existing.Term), existing.ID)
	logger := logging.WithContext(ctx, e.logger)

	focus, unknown := parseFocus(focusAreas)
	if len(unknown) > 0 {
		return nil, services.Wrap(services.ErrValidation, "enhancement", "enhance",
			fmt.Sprintf("unknown focus areas: %s", strings.Join(unknown, ", ")), nil)
	}
	if e.completer == nil {
		return nil, services.Wrap(services.ErrAIService, "enhancement", "enhance", "completion service not configured", nil)
	}

	completion, err := e.completer.Complete(services.WithStage(ctx, "drafting"), enhancePrompt(existing, focus), e.model, e.options)
	if err != nil {
		return nil, services.Wrap(services.ErrAIService, "enhancement", "enhance", "improved definition request failed", err)
	}
	draft, err := generation.ParseDraft(completion.Response)
	if err != nil {
		return nil, services.Wrap(services.ErrAIService, "enhancement", "enhance", "improved definition unusable", err)
	}

	out := existing.Clone()
	humanVerified := existing.QualityScore.HumanVerified
	var changed bool
	out.Definition, changed = mergeDefinition(existing.Definition, draft.Definition, focus, humanVerified)
	out.Metadata.RelatedTerms = appendUnique(out.Metadata.RelatedTerms, draft.RelatedTerms...)
	out.Metadata.Categories = appendUnique(out.Metadata.Categories, draft.Categories...)

	if !existing.References.HasWikipedia() || focus[FocusReferences] {
		refs, err := e.resolver.Resolve(services.WithStage(ctx, "resolving"), existing.Term, existing.Type, existing.Language)
		if err != nil {
			return nil, err
		}
		out.References = refs
	}

	now := e.now().UTC()
	result := e.validator.Validate(services.WithStage(ctx, "validating"), out)
	if result.Failed() {
		// No assessment took place; the previous score stays on record.
		logging.WarnWithContext(ctx, logger, "quality check unavailable; keeping previous score", "quality_check_skipped",
			logging.Int("previous_score", existing.QualityScore.Overall),
			logging.String(logging.FieldImpact, "score not refreshed for this version"),
		)
		out.QualityScore = existing.QualityScore
	} else {
		out.QualityScore = result.QualityScore(now)
	}
	out.QualityScore.HumanVerified = humanVerified && !changed
	out.Version = existing.Version + 1
	out.UpdatedAt = now

	attrs := append(logging.DecisionAttrs("enhancement_merge", mergeResult(changed), mergeReason(focus, humanVerified)),
		logging.Int("previous_score", existing.QualityScore.Overall),
		logging.Int("score", out.QualityScore.Overall),
		logging.Int("version", out.Version),
		logging.Strings("focus", focus.names()),
	)
	logger.Info("entry enhanced", logging.Args(attrs...)...)
	return &out, nil
}

func mergeResult(changed bool) string {
	if changed {
		return "definition_updated"
	}
	return "definition_kept"
}

func mergeReason(focus focusSet, humanVerified bool) string {
	switch {
	case humanVerified && focus.empty():
		return "human_verified_fill_only"
	case !focus.empty():
		return "focused"
	default:
		return "replace_weak_fields"
	}
}

func enhancePrompt(entry dictionary.Entry, focus focusSet) string {
	var b strings.Builder
	b.WriteString("Improve an existing music dictionary entry. Keep what is accurate and fix what is weak.\n")
	fmt.Fprintf(&b, "Term: %s\nType: %s\n", entry.Term, entry.Type)
	if entry.Language != "" {
		fmt.Fprintf(&b, "Source language: %s\n", language.DisplayName(entry.Language))
	}
	b.WriteString("\nCurrent entry:\n")
	fmt.Fprintf(&b, "Concise: %s\n", entry.Definition.Concise)
	fmt.Fprintf(&b, "Detailed: %s\n", entry.Definition.Detailed)
	fmt.Fprintf(&b, "Etymology: %s\n", entry.Definition.Etymology)
	fmt.Fprintf(&b, "Pronunciation: %s\n", entry.Definition.IPA())
	fmt.Fprintf(&b, "Usage: %s\n", entry.Definition.UsageExample)
	fmt.Fprintf(&b, "Current quality score: %d/100\n", entry.QualityScore.Overall)
	if names := focus.names(); len(names) > 0 {
		fmt.Fprintf(&b, "\nFocus on: %s\n", strings.Join(names, ", "))
	}
	b.WriteString(`
Respond with JSON only:
{"concise": "...", "detailed": "...", "etymology": "...", "pronunciation": {"ipa": "..."},
 "usage_example": "...", "related_terms": ["..."], "categories": ["..."]}
`)
	return b.String()
}
