package validation

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"cadenza/internal/dictionary"
	"cadenza/internal/logging"
	"cadenza/internal/services/llm"
)

// FailureIssue is the single issue reported when validation cannot run.
const FailureIssue = "Validation failed"

const (
	maxScore = 100

	wikipediaURLWeight = 50
	extractWeight      = 20
	videoWeight        = 30
)

// Result is the outcome of one validation pass.
type Result struct {
	Score                 int
	Issues                []string
	Suggestions           []string
	DefinitionClarity     int
	ReferenceCompleteness int
	AccuracyVerification  int
}

// FailedResult is returned whenever the completion call or parse fails.
func FailedResult() Result {
	return Result{Score: 0, Issues: []string{FailureIssue}, Suggestions: []string{}}
}

// Failed reports whether r is the degraded failure result.
func (r Result) Failed() bool {
	return r.Score == 0 && len(r.Issues) == 1 && r.Issues[0] == FailureIssue
}

// QualityScore converts r to the stored score, stamped at checkedAt.
func (r Result) QualityScore(checkedAt time.Time) dictionary.QualityScore {
	return dictionary.QualityScore{
		Overall:               r.Score,
		DefinitionClarity:     r.DefinitionClarity,
		ReferenceCompleteness: r.ReferenceCompleteness,
		AccuracyVerification:  r.AccuracyVerification,
		LastAICheck:           checkedAt.UTC(),
		ConfidenceLevel:       dictionary.ConfidenceFor(r.Score),
	}
}

// Validator scores entries.
type Validator struct {
	completer llm.Completer
	model     string
	options   llm.Options
	logger    *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithModel selects the completion model; empty uses the client default.
func WithModel(model string) Option {
	return func(v *Validator) { v.model = strings.TrimSpace(model) }
}

// WithCompletionOptions overrides the sampling options.
func WithCompletionOptions(opts llm.Options) Option {
	return func(v *Validator) { v.options = opts }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// New constructs a Validator backed by completer.
func New(completer llm.Completer, opts ...Option) *Validator {
	v := &Validator{
		completer: completer,
		options:   llm.Options{MaxTokens: 600, Temperature: 0.1, JSON: true},
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.options.Stream = false
	v.options.JSON = true
	v.logger = logging.NewComponentLogger(v.logger, "validator")
	return v
}

type rubricResponse struct {
	Score                *float64 `json:"score"`
	DefinitionClarity    float64  `json:"definition_clarity"`
	AccuracyVerification float64  `json:"accuracy_verification"`
	Issues               []string `json:"issues"`
	Suggestions          []string `json:"suggestions"`
}

// Validate scores entry. It never fails; see FailedResult.
func (v *Validator) Validate(ctx context.Context, entry dictionary.Entry) Result {
	logger := logging.WithContext(ctx, v.logger)
	if v.completer == nil {
		logger.Warn("validation skipped", logging.String(logging.FieldEventType, "validation_unavailable"))
		return FailedResult()
	}

	completion, err := v.completer.Complete(ctx, buildPrompt(entry), v.model, v.options)
	if err != nil {
		logging.WarnWithContext(ctx, logger, "validation request failed", "validation_failed",
			logging.String(logging.FieldErrorHint, "check completion service availability"),
			logging.String(logging.FieldImpact, "attempt scored 0"),
			logging.Error(err),
		)
		return FailedResult()
	}

	var parsed rubricResponse
	if err := llm.DecodeLLMJSON(completion.Response, &parsed); err != nil || parsed.Score == nil {
		if err == nil {
			err = errors.New("response missing score")
		}
		logging.WarnWithContext(ctx, logger, "validation response unparseable", "validation_parse_failed",
			logging.String(logging.FieldImpact, "attempt scored 0"),
			logging.Error(err),
		)
		return FailedResult()
	}

	result := Result{
		Score:                 clampScore(*parsed.Score),
		Issues:                cleanList(parsed.Issues),
		Suggestions:           cleanList(parsed.Suggestions),
		DefinitionClarity:     clampScore(parsed.DefinitionClarity),
		ReferenceCompleteness: ReferenceCompleteness(entry.References),
		AccuracyVerification:  clampScore(parsed.AccuracyVerification),
	}
	logger.Debug("validation scored",
		logging.Int("score", result.Score),
		logging.Int("issue_count", len(result.Issues)),
		logging.Int64("latency_ms", completion.LatencyMS),
	)
	return result
}

// ReferenceCompleteness scores how much of the reference set is filled in.
func ReferenceCompleteness(refs dictionary.ReferenceSet) int {
	score := 0
	if refs.HasWikipedia() {
		score += wikipediaURLWeight
		if strings.TrimSpace(refs.Wikipedia.Extract) != "" {
			score += extractWeight
		}
	}
	if len(refs.Videos()) > 0 {
		score += videoWeight
	}
	return score
}

func clampScore(value float64) int {
	switch {
	case math.IsNaN(value), value <= 0:
		return 0
	case value >= maxScore:
		return maxScore
	default:
		return int(value + 0.5)
	}
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
