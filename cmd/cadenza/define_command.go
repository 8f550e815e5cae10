package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cadenza/internal/dictionary"
	"cadenza/internal/generation"
)

func newDefineCommand(ctx *commandContext) *cobra.Command {
	var termType string
	var lang string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "define TERM",
		Short: "Look up a term, generating and saving it when missing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.TrimSpace(strings.Join(args, " "))
			if term == "" {
				return errNoTerm
			}
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			result, err := p.catalog.Lookup(cmd.Context(), term, dictionary.ParseTermType(termType), lang)
			if err != nil {
				return describeGenerationError(err)
			}
			if jsonOutput {
				return writeJSON(cmd, result.Entry)
			}
			out := cmd.OutOrStdout()
			if result.Generated {
				fmt.Fprintf(out, "Generated new entry for %q\n\n", result.Entry.Term)
			}
			fmt.Fprint(out, renderEntry(result.Entry, shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&termType, "type", "t", string(dictionary.TypeGeneral), "Term type ("+typeList()+")")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language code (detected when omitted)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output entry as JSON")
	return cmd
}

func typeList() string {
	types := dictionary.TermTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// describeGenerationError appends the validator suggestions to quality failures.
func describeGenerationError(err error) error {
	var qualityErr *generation.QualityError
	if !errors.As(err, &qualityErr) || len(qualityErr.Suggestions) == 0 {
		return err
	}
	var b strings.Builder
	for _, suggestion := range qualityErr.Suggestions {
		fmt.Fprintf(&b, "\n  suggestion: %s", suggestion)
	}
	return fmt.Errorf("%w%s", err, b.String())
}
