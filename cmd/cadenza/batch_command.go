package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"cadenza/internal/config"
	"cadenza/internal/generation"
	"cadenza/internal/preflight"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Generate entries for every term in FILE (use - for stdin)",
		Long: "Each line is term[,type[,language]]. Blank lines and lines starting with # are skipped.\n" +
			"Terms are generated in windows of generation.batch_window and saved as they succeed.\n" +
			"Terms already in the dictionary are reported as existing and left unchanged.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			requests, err := readBatchFile(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if len(requests) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No terms to generate")
				return nil
			}

			lock := flock.New(cfg.LockPath())
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire batch lock: %w", err)
			}
			if !ok {
				return fmt.Errorf("another batch is already running (lock %s)", cfg.LockPath())
			}
			defer func() { _ = lock.Unlock() }()

			if !skipPreflight {
				if err := runPreflight(cmd, cfg); err != nil {
					return err
				}
			}

			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			results := p.catalog.GenerateBatch(cmd.Context(), requests)
			if jsonOutput {
				if err := writeJSON(cmd, batchJSON(results)); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), renderBatch(results))
			}
			if failed := countFailed(results); failed == len(results) {
				return fmt.Errorf("all %d batch items failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip service reachability checks")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	return cmd
}

func readBatchFile(path string, stdin io.Reader) ([]generation.Request, error) {
	if path == "-" {
		return parseBatchInput(stdin)
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer file.Close()
	return parseBatchInput(file)
}

func runPreflight(cmd *cobra.Command, cfg *config.Config) error {
	failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg))
	if len(failed) == 0 {
		return nil
	}
	details := make([]string, 0, len(failed))
	for _, r := range failed {
		details = append(details, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return errors.New("preflight failed: " + strings.Join(details, "; "))
}

type batchItemJSON struct {
	Term      string `json:"term"`
	Type      string `json:"type"`
	Language  string `json:"language,omitempty"`
	OK        bool   `json:"ok"`
	Existing  bool   `json:"existing,omitempty"`
	ID        string `json:"id,omitempty"`
	Score     int    `json:"score,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

func batchJSON(results []generation.BatchResult) []batchItemJSON {
	out := make([]batchItemJSON, 0, len(results))
	for _, r := range results {
		item := batchItemJSON{
			Term:     r.Request.Term,
			Type:     string(r.Request.Type),
			Language: r.Request.Language,
			OK:       r.OK(),
			Existing: r.Existing,
		}
		if r.OK() {
			item.ID = r.Entry.ID
			item.Score = r.Entry.QualityScore.Overall
			item.Language = r.Entry.Language
		} else {
			item.Error = r.ErrorMessage
			item.ErrorKind = r.ErrorKind
		}
		out = append(out, item)
	}
	return out
}

func renderBatch(results []generation.BatchResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.OK() {
			result := "ok"
			if r.Existing {
				result = "existing"
			}
			rows = append(rows, []string{r.Request.Term, r.Entry.Language, result, strconv.Itoa(r.Entry.QualityScore.Overall), r.Entry.ID})
			continue
		}
		rows = append(rows, []string{r.Request.Term, r.Request.Language, "failed: " + r.ErrorKind, "-", r.ErrorMessage})
	}
	table := renderTable([]string{"Term", "Lang", "Result", "Score", "ID / Error"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft})
	failed := countFailed(results)
	existing := 0
	for _, r := range results {
		if r.OK() && r.Existing {
			existing++
		}
	}
	return fmt.Sprintf("%s\n%d generated, %d existing, %d failed\n", table, len(results)-failed-existing, existing, failed)
}

func countFailed(results []generation.BatchResult) int {
	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	return failed
}
