package references

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"cadenza/internal/dictionary"
	"cadenza/internal/logging"
	"cadenza/internal/services/llm"
	"cadenza/internal/services/wikipedia"
	"cadenza/internal/textutil"
)

var firstInteger = regexp.MustCompile(`-?\d+`)

// ParseSelection reads a 1-based ordinal from response and returns the
// 0-based candidate index. Unparsable or out-of-range answers select 0.
func ParseSelection(response string, candidates int) int {
	match := firstInteger.FindString(response)
	if match == "" {
		return 0
	}
	ordinal, err := strconv.Atoi(match)
	if err != nil || ordinal < 1 || ordinal > candidates {
		return 0
	}
	return ordinal - 1
}

// RankBySimilarity returns candidate indexes ordered by token cosine
// similarity to phrase. Ties keep lookup order.
func RankBySimilarity(phrase string, pages []wikipedia.Page) []int {
	scores := make([]float64, len(pages))
	order := make([]int, len(pages))
	for i, page := range pages {
		order[i] = i
		scores[i] = textutil.TextSimilarity(phrase, page.Title)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}

// orderCandidates moves titles attributed to the composer behind plain ones
// for named works.
func orderCandidates(pages []wikipedia.Page, termType dictionary.TermType, composer string) []wikipedia.Page {
	if !termType.NamesWork() {
		return pages
	}
	ordered := make([]wikipedia.Page, 0, len(pages))
	var attributed []wikipedia.Page
	for _, page := range pages {
		if HasAttribution(page.Title, composer) {
			attributed = append(attributed, page)
			continue
		}
		ordered = append(ordered, page)
	}
	return append(ordered, attributed...)
}

func (r *Resolver) choose(ctx context.Context, term, phrase string, termType dictionary.TermType, pages []wikipedia.Page) wikipedia.Page {
	logger := logging.WithContext(ctx, r.logger)
	if len(pages) == 1 {
		logger.Info("reference candidate decision",
			logging.Args(append(logging.DecisionAttrs("reference_selection", "single", "one_candidate"),
				logging.String("selected_title", pages[0].Title))...)...)
		return pages[0]
	}

	var completion llm.Completion
	err := errNoCompleter
	if r.completer != nil {
		completion, err = r.completer.Complete(ctx, selectionPrompt(term, termType, pages), r.model, r.selectOptions)
	}
	if err != nil {
		ranked := RankBySimilarity(phrase, pages)
		chosen := pages[ranked[0]]
		attrs := append(logging.DecisionAttrs("reference_selection", "similarity", "ai_selection_failed"),
			logging.String("selected_title", chosen.Title),
			logging.Int("candidates", len(pages)),
			logging.Error(err),
		)
		logger.Warn("reference candidate decision", logging.Args(attrs...)...)
		return chosen
	}

	index := ParseSelection(completion.Response, len(pages))
	attrs := append(logging.DecisionAttrs("reference_selection", "ai", "ordinal_selected"),
		logging.String("selected_title", pages[index].Title),
		logging.Int("selected_index", index+1),
		logging.Int("candidates", len(pages)),
	)
	logger.Info("reference candidate decision", logging.Args(attrs...)...)
	return pages[index]
}

func selectionPrompt(term string, termType dictionary.TermType, pages []wikipedia.Page) string {
	var b strings.Builder
	b.WriteString("Select the primary encyclopedia article for a music dictionary entry.\n")
	fmt.Fprintf(&b, "Term: %s\nType: %s\n\nCandidates:\n", term, termType)
	for i, page := range pages {
		fmt.Fprintf(&b, "%d. %s", i+1, page.Title)
		if page.Description != "" {
			fmt.Fprintf(&b, " (%s)", page.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nPrefer the canonical article over disambiguation pages, films, recordings and lists.")
	if termType.NamesWork() {
		b.WriteString(" The term names a work; prefer the article about the work itself.")
	}
	b.WriteString("\nAnswer with the number of the best candidate only.")
	return b.String()
}
