package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cadenza/internal/catalog"
)

func newEnhanceCommand(ctx *commandContext) *cobra.Command {
	var focus []string
	var below int
	var limit int
	var force bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "enhance [ID]",
		Short: "Improve a stored entry, or sweep entries scoring below a threshold",
		Long: "With an ID, enhances that entry (optionally restricted to --focus areas).\n" +
			"With --below, enhances stored entries scoring under the threshold, weakest first.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && below == 0 {
				return errors.New("specify an entry ID or --below THRESHOLD")
			}
			if len(args) == 1 && below != 0 {
				return errors.New("an entry ID and --below are mutually exclusive")
			}
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if below != 0 {
				report, err := p.catalog.EnhanceBelow(cmd.Context(), below, limit, force)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, sweepJSON(report))
				}
				fmt.Fprint(out, renderSweep(report))
				return nil
			}

			entry, err := p.catalog.Enhance(cmd.Context(), strings.TrimSpace(args[0]), focus...)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, entry)
			}
			fmt.Fprintf(out, "Enhanced %q to version %d\n\n", entry.Term, entry.Version)
			fmt.Fprint(out, renderEntry(entry, shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&focus, "focus", "f", nil, "Focus areas (concise, detailed, etymology, pronunciation, usage_example, definition, references)")
	cmd.Flags().IntVar(&below, "below", 0, "Enhance entries scoring below this threshold")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to sweep (0 = all)")
	cmd.Flags().BoolVar(&force, "force", false, "Include human-verified entries in the sweep")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

type sweepFailureJSON struct {
	ID        string `json:"id"`
	Term      string `json:"term"`
	Error     string `json:"error"`
	ErrorKind string `json:"error_kind"`
}

type sweepEnhancedJSON struct {
	ID      string `json:"id"`
	Term    string `json:"term"`
	Version int    `json:"version"`
	Score   int    `json:"score"`
}

type sweepReportJSON struct {
	Examined int                 `json:"examined"`
	Enhanced []sweepEnhancedJSON `json:"enhanced"`
	Failures []sweepFailureJSON  `json:"failures"`
}

func sweepJSON(report catalog.SweepReport) sweepReportJSON {
	out := sweepReportJSON{
		Examined: report.Examined,
		Enhanced: make([]sweepEnhancedJSON, 0, len(report.Enhanced)),
		Failures: make([]sweepFailureJSON, 0, len(report.Failures)),
	}
	for _, entry := range report.Enhanced {
		out.Enhanced = append(out.Enhanced, sweepEnhancedJSON{
			ID: entry.ID, Term: entry.Term, Version: entry.Version, Score: entry.QualityScore.Overall,
		})
	}
	for _, failure := range report.Failures {
		out.Failures = append(out.Failures, sweepFailureJSON{
			ID: failure.EntryID, Term: failure.Term, Error: failure.Err.Error(), ErrorKind: failure.ErrorKind,
		})
	}
	return out
}

func renderSweep(report catalog.SweepReport) string {
	if report.Examined == 0 {
		return "No entries below threshold\n"
	}
	rows := make([][]string, 0, report.Examined)
	for _, entry := range report.Enhanced {
		rows = append(rows, []string{entry.Term, "enhanced", strconv.Itoa(entry.Version), strconv.Itoa(entry.QualityScore.Overall)})
	}
	for _, failure := range report.Failures {
		rows = append(rows, []string{failure.Term, "failed: " + failure.ErrorKind, "-", "-"})
	}
	table := renderTable([]string{"Term", "Result", "Version", "Score"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight, alignRight})
	return fmt.Sprintf("%s\n%d examined, %d enhanced, %d failed\n", table, report.Examined, len(report.Enhanced), len(report.Failures))
}
