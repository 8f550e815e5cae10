package generation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"cadenza/internal/dictionary"
	"cadenza/internal/logging"
	"cadenza/internal/services"
)

// BatchResult is the outcome of one batch item.
type BatchResult struct {
	Request Request
	Entry   *dictionary.Entry
	// Existing is set when Entry was already stored and nothing was generated.
	Existing bool
	Err      error
	// ErrorMessage and ErrorKind describe Err for reports.
	ErrorMessage string
	ErrorKind    string
}

// OK reports whether the item produced an entry.
func (r BatchResult) OK() bool {
	return r.Err == nil && r.Entry != nil
}

// GenerateBatch generates every request, window entries at a time. Results
// keep input order.
func (g *Generator) GenerateBatch(ctx context.Context, requests []Request) []BatchResult {
	results := make([]BatchResult, len(requests))
	for start := 0; start < len(requests); start += g.window {
		end := min(start+g.window, len(requests))
		if err := ctx.Err(); err != nil {
			for i := start; i < len(requests); i++ {
				results[i] = failed(requests[i], err)
			}
			break
		}

		var group errgroup.Group
		for i := start; i < end; i++ {
			group.Go(func() error {
				results[i] = g.generateItem(ctx, requests[i])
				return nil
			})
		}
		_ = group.Wait()

		succeeded := 0
		for i := start; i < end; i++ {
			if results[i].OK() {
				succeeded++
			}
		}
		g.logger.Info("batch window complete",
			logging.Int("window_start", start+1),
			logging.Int("window_size", end-start),
			logging.Int("succeeded", succeeded),
			logging.Int("total", len(requests)),
		)
	}
	return results
}

func (g *Generator) generateItem(ctx context.Context, req Request) (result BatchResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = failed(req, fmt.Errorf("generate %q: panic: %v", req.Term, rec))
		}
	}()
	entry, err := g.Generate(ctx, req.Term, req.Type, req.Language)
	if err != nil {
		logging.WarnWithContext(services.WithTerm(ctx, req.Term), g.logger, "batch item failed", "batch_item_failed",
			logging.String("error_kind", services.ErrorKind(err)),
			logging.Error(err),
		)
		return failed(req, err)
	}
	return BatchResult{Request: req, Entry: entry}
}

func failed(req Request, err error) BatchResult {
	return BatchResult{
		Request:      req,
		Err:          err,
		ErrorMessage: err.Error(),
		ErrorKind:    services.ErrorKind(err),
	}
}
