package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cadenza/internal/preflight"
	"cadenza/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show store statistics and service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			var lines []string

			lines = append(lines, renderSectionHeader("Store", colorize)...)
			st, err := ctx.openStore()
			if err != nil {
				lines = append(lines, renderStatusLine("Database", statusError, err.Error(), colorize))
			} else {
				lines = append(lines, storeStatusLines(cmd, st, cfg.Generation.QualityThreshold, colorize)...)
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Services", colorize)...)
			if offline {
				lines = append(lines, renderStatusLine("Checks", statusInfo, "Skipped (--offline)", colorize))
			} else {
				for _, result := range preflight.RunAll(cmd.Context(), cfg) {
					kind := statusOK
					if !result.Passed {
						kind = statusError
					}
					lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
				}
			}

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip remote service checks")
	return cmd
}

func storeStatusLines(cmd *cobra.Command, st *store.Store, threshold int, colorize bool) []string {
	ctx := cmd.Context()
	lines := []string{renderStatusLine("Database", statusOK, st.Path(), colorize)}

	if version, err := st.SchemaVersion(ctx); err != nil {
		lines = append(lines, renderStatusLine("Schema", statusError, err.Error(), colorize))
	} else {
		lines = append(lines, renderStatusLine("Schema", statusInfo, version, colorize))
	}

	total, err := st.Count(ctx)
	if err != nil {
		return append(lines, renderStatusLine("Entries", statusError, err.Error(), colorize))
	}
	lines = append(lines, renderStatusLine("Entries", statusInfo, fmt.Sprintf("%d", total), colorize))

	weak, err := st.List(ctx, store.ListOptions{MaxScore: threshold})
	if err != nil {
		return append(lines, renderStatusLine("Below threshold", statusError, err.Error(), colorize))
	}
	kind := statusOK
	if len(weak) > 0 {
		kind = statusWarn
	}
	lines = append(lines, renderStatusLine("Below threshold", kind, fmt.Sprintf("%d (< %d)", len(weak), threshold), colorize))
	return lines
}
