package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cadenza/internal/language"
)

func newDetectCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "detect TERM...",
		Short:       "Detect the language of one or more terms",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			detector := language.NewDetector()
			terms := make([]string, 0, len(args))
			for _, arg := range args {
				if term := strings.TrimSpace(arg); term != "" {
					terms = append(terms, term)
				}
			}
			if len(terms) == 0 {
				return errNoTerm
			}
			detections := detector.DetectMany(terms)

			if jsonOutput {
				type row struct {
					Term string `json:"term"`
					language.Detection
				}
				out := make([]row, len(terms))
				for i, d := range detections {
					out[i] = row{Term: terms[i], Detection: d}
				}
				return writeJSON(cmd, out)
			}

			rows := make([][]string, len(terms))
			for i, d := range detections {
				lang := d.Language
				if d.IsNone() {
					lang = "-"
				} else {
					lang = languageLabel(lang)
				}
				rows[i] = []string{terms[i], lang, fmt.Sprintf("%.2f", d.Confidence), string(d.Method), d.Matched}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Term", "Language", "Confidence", "Method", "Matched"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output detections as JSON")
	return cmd
}
