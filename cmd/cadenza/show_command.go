package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cadenza/internal/dictionary"
	"cadenza/internal/services"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var lang string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show ID|TERM",
		Short: "Display a stored entry without generating",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(strings.Join(args, " "))
			if key == "" {
				return errNoTerm
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			entry, err := st.GetByID(cmd.Context(), key)
			if err != nil {
				return err
			}
			if entry == nil {
				if lang == "" {
					lang = cfg.Wikipedia.DefaultLanguage
				}
				entry, err = st.FindByTerm(cmd.Context(), key, lang)
				if err != nil {
					return err
				}
			}
			if entry == nil {
				return services.Wrap(services.ErrNotFound, "cli", "show",
					fmt.Sprintf("no entry for %q; run `cadenza define %s` to generate one", key, key), nil)
			}
			if jsonOutput {
				return writeJSON(cmd, entry)
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderEntry(entry, shouldColorize(out)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language of the term (defaults to wikipedia.default_language)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output entry as JSON")
	return cmd
}

// entrySummary is the list/JSON projection of an entry.
type entrySummary struct {
	ID            string `json:"id"`
	Term          string `json:"term"`
	Language      string `json:"language"`
	Type          string `json:"type"`
	Score         int    `json:"score"`
	Confidence    string `json:"confidence"`
	HumanVerified bool   `json:"human_verified"`
	Version       int    `json:"version"`
	Searches      int    `json:"search_frequency"`
}

func summarize(entry *dictionary.Entry) entrySummary {
	level := entry.QualityScore.ConfidenceLevel
	if level == "" {
		level = dictionary.ConfidenceFor(entry.QualityScore.Overall)
	}
	return entrySummary{
		ID:            entry.ID,
		Term:          entry.Term,
		Language:      entry.Language,
		Type:          string(entry.Type),
		Score:         entry.QualityScore.Overall,
		Confidence:    string(level),
		HumanVerified: entry.QualityScore.HumanVerified,
		Version:       entry.Version,
		Searches:      entry.Metadata.SearchFrequency,
	}
}
