package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cadenza/internal/dictionary"
	"cadenza/internal/generation"
	"cadenza/internal/logging"
	"cadenza/internal/services"
	"cadenza/internal/store"
)

const defaultSweepConcurrency = 5

// Generator produces new entries.
type Generator interface {
	ResolveLanguage(ctx context.Context, term, declared string) string
	Generate(ctx context.Context, term string, termType dictionary.TermType, lang string) (*dictionary.Entry, error)
	GenerateBatch(ctx context.Context, requests []generation.Request) []generation.BatchResult
}

// Enhancer improves existing entries.
type Enhancer interface {
	Enhance(ctx context.Context, existing dictionary.Entry, focusAreas ...string) (*dictionary.Entry, error)
}

// Service is the store-backed front of the pipeline.
type Service struct {
	repo        store.Repository
	generator   Generator
	enhancer    Enhancer
	logger      *slog.Logger
	now         func() time.Time
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for access stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSweepConcurrency caps concurrent enhancements during EnhanceBelow.
func WithSweepConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New builds a Service.
func New(repo store.Repository, generator Generator, enhancer Enhancer, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		generator:   generator,
		enhancer:    enhancer,
		logger:      logging.NewNop(),
		now:         time.Now,
		concurrency: defaultSweepConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "catalog")
	return s
}

// LookupResult is an entry plus whether this call created it.
type LookupResult struct {
	Entry     *dictionary.Entry
	Generated bool
}

// Lookup returns the stored entry for term, generating and saving it when
// absent. Hits bump the entry's search frequency and last access time.
func (s *Service) Lookup(ctx context.Context, term string, termType dictionary.TermType, lang string) (LookupResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return LookupResult{}, services.Wrap(services.ErrValidation, "catalog", "lookup", "term is required", nil)
	}
	ctx = services.WithTerm(ctx, term)
	logger := logging.WithContext(ctx, s.logger)
	lang = s.generator.ResolveLanguage(ctx, term, lang)

	existing, err := s.repo.FindByTerm(ctx, term, lang)
	if err != nil {
		return LookupResult{}, fmt.Errorf("lookup %q: %w", term, err)
	}
	if existing != nil {
		at := s.now().UTC()
		if err := s.repo.Touch(ctx, existing.ID, at); err != nil {
			return LookupResult{}, fmt.Errorf("record access for %q: %w", term, err)
		}
		existing.Metadata.SearchFrequency++
		existing.Metadata.LastAccessed = &at
		logger.Debug("catalog hit",
			logging.String(logging.FieldEntryID, existing.ID),
			logging.Int("search_frequency", existing.Metadata.SearchFrequency),
		)
		return LookupResult{Entry: existing}, nil
	}

	entry, err := s.generator.Generate(ctx, term, termType, lang)
	if err != nil {
		return LookupResult{}, err
	}
	stored, err := s.repo.Upsert(ctx, entry)
	if err != nil {
		return LookupResult{}, fmt.Errorf("save %q: %w", term, err)
	}
	if stored.ID != entry.ID {
		logger.Info("catalog kept concurrently stored entry",
			logging.String(logging.FieldEntryID, stored.ID),
			logging.Bool("human_verified", stored.QualityScore.HumanVerified),
		)
		return LookupResult{Entry: stored}, nil
	}
	logger.Info("catalog entry generated",
		logging.String(logging.FieldEntryID, stored.ID),
		logging.String("language", stored.Language),
		logging.Int("quality_score", stored.QualityScore.Overall),
	)
	return LookupResult{Entry: stored, Generated: true}, nil
}

// Enhance improves the stored entry id and saves the new version.
func (s *Service) Enhance(ctx context.Context, id string, focusAreas ...string) (*dictionary.Entry, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load entry %s: %w", id, err)
	}
	if existing == nil {
		return nil, services.Wrap(services.ErrNotFound, "catalog", "enhance", fmt.Sprintf("entry %s", id), nil)
	}
	return s.enhanceAndSave(ctx, *existing, focusAreas)
}

func (s *Service) enhanceAndSave(ctx context.Context, existing dictionary.Entry, focusAreas []string) (*dictionary.Entry, error) {
	ctx = services.WithEntryID(services.WithTerm(ctx, existing.Term), existing.ID)
	improved, err := s.enhancer.Enhance(ctx, existing, focusAreas...)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, improved); err != nil {
		return nil, fmt.Errorf("save enhanced entry %s: %w", existing.ID, err)
	}
	logging.WithContext(ctx, s.logger).Info("catalog entry enhanced",
		logging.Int("version", improved.Version),
		logging.Int("previous_score", existing.QualityScore.Overall),
		logging.Int("quality_score", improved.QualityScore.Overall),
	)
	return improved, nil
}

// GenerateBatch generates the requests whose term is not stored yet and saves
// every success. Stored terms come back as Existing results without a
// generation call. A failed lookup or save turns that item into a failure
// record.
func (s *Service) GenerateBatch(ctx context.Context, requests []generation.Request) []generation.BatchResult {
	results := make([]generation.BatchResult, len(requests))
	pending := make([]generation.Request, 0, len(requests))
	slots := make([]int, 0, len(requests))
	for i, req := range requests {
		req.Language = s.generator.ResolveLanguage(ctx, req.Term, req.Language)
		existing, err := s.repo.FindByTerm(ctx, req.Term, req.Language)
		switch {
		case err != nil:
			results[i] = batchFailure(req, fmt.Errorf("lookup %q: %w", req.Term, err))
		case existing != nil:
			results[i] = generation.BatchResult{Request: req, Entry: existing, Existing: true}
		default:
			pending = append(pending, req)
			slots = append(slots, i)
		}
	}
	if skipped := len(requests) - len(pending); skipped > 0 {
		s.logger.Info("batch skipping stored terms",
			logging.Int("skipped", skipped),
			logging.Int("pending", len(pending)),
		)
	}
	if len(pending) == 0 {
		return results
	}

	generated := s.generator.GenerateBatch(ctx, pending)
	for j, result := range generated {
		i := slots[j]
		if !result.OK() {
			results[i] = result
			continue
		}
		stored, err := s.repo.Upsert(ctx, result.Entry)
		if err != nil {
			results[i] = batchFailure(result.Request, fmt.Errorf("save %q: %w", result.Request.Term, err))
			continue
		}
		result.Existing = stored.ID != result.Entry.ID
		result.Entry = stored
		results[i] = result
	}
	return results
}

func batchFailure(req generation.Request, err error) generation.BatchResult {
	return generation.BatchResult{
		Request:      req,
		Err:          err,
		ErrorMessage: err.Error(),
		ErrorKind:    services.ErrorKind(err),
	}
}

// SweepFailure records one entry the sweep could not improve.
type SweepFailure struct {
	EntryID   string
	Term      string
	Err       error
	ErrorKind string
}

// SweepReport summarizes an EnhanceBelow run.
type SweepReport struct {
	Examined int
	Enhanced []*dictionary.Entry
	Failures []SweepFailure
}

// EnhanceBelow enhances up to limit entries scoring under threshold, weakest
// first. Human-verified entries are skipped unless force is set.
func (s *Service) EnhanceBelow(ctx context.Context, threshold, limit int, force bool) (SweepReport, error) {
	if threshold < 1 || threshold > 100 {
		return SweepReport{}, services.Wrap(services.ErrValidation, "catalog", "sweep",
			fmt.Sprintf("threshold %d outside 1..100", threshold), nil)
	}
	candidates, err := s.repo.List(ctx, store.ListOptions{
		Limit:           limit,
		MaxScore:        threshold,
		ExcludeVerified: !force,
	})
	if err != nil {
		return SweepReport{}, fmt.Errorf("list low quality entries: %w", err)
	}

	report := SweepReport{Examined: len(candidates)}
	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)
	for _, candidate := range candidates {
		group.Go(func() error {
			improved, err := s.enhanceAndSave(groupCtx, *candidate, nil)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failures = append(report.Failures, SweepFailure{
					EntryID:   candidate.ID,
					Term:      candidate.Term,
					Err:       err,
					ErrorKind: services.ErrorKind(err),
				})
				return nil
			}
			report.Enhanced = append(report.Enhanced, improved)
			return nil
		})
	}
	_ = group.Wait()

	s.logger.Info("quality sweep complete",
		logging.String(logging.FieldEventType, "quality_sweep"),
		logging.Int("threshold", threshold),
		logging.Int("examined", report.Examined),
		logging.Int("enhanced", len(report.Enhanced)),
		logging.Int("failed", len(report.Failures)),
	)
	return report, ctx.Err()
}
