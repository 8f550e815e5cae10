package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cadenza/internal/store"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var below int
	var limit int
	var unverified bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			entries, err := st.List(cmd.Context(), store.ListOptions{
				Limit:           limit,
				MaxScore:        below,
				ExcludeVerified: unverified,
			})
			if err != nil {
				return err
			}

			summaries := make([]entrySummary, 0, len(entries))
			for _, entry := range entries {
				summaries = append(summaries, summarize(entry))
			}
			if jsonOutput {
				return writeJSON(cmd, summaries)
			}
			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No entries")
				return nil
			}
			rows := make([][]string, 0, len(summaries))
			for i, s := range summaries {
				rows = append(rows, []string{
					s.Term,
					s.Language,
					typeLabel(entries[i].Type),
					strconv.Itoa(s.Score),
					s.Confidence,
					yesNo(s.HumanVerified),
					strconv.Itoa(s.Version),
					s.ID,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Term", "Lang", "Type", "Score", "Confidence", "Verified", "Version", "ID"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVar(&below, "below", 0, "Only entries scoring below this threshold, weakest first")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to show (0 = all)")
	cmd.Flags().BoolVar(&unverified, "unverified", false, "Hide human-verified entries")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
