package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/report"
	"github.com/docsift/docsift/internal/screen"
)

var screenOut string

var screenCmd = &cobra.Command{
	Use:   "screen <candidates.json>",
	Short: "Screen scored candidates and write an XLSX report",
	Long: `Apply the configured thresholds to a file of scored candidates, decide
Shortlisted/Maybe/Rejected for each, and write the results to an XLSX
workbook with per-decision counts on a summary sheet.

The input is the scoring stage's JSON output: a bare array of candidates
or an object with a "candidates" key.

Examples:
  docsift screen scores.json
  docsift screen scores.json --out screening.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := cm.Get()

		candidates, err := screen.LoadCandidates(args[0])
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			return fmt.Errorf("no candidates found in %s", args[0])
		}

		engine := screen.NewEngine(screen.Thresholds{
			Shortlist: cfg.Screening.ShortlistThreshold,
			Reject:    cfg.Screening.RejectThreshold,
		})
		processed, sum := engine.ProcessCandidates(candidates)

		w := report.NewWriter(slog.Default())
		if err := w.WriteXLSX(processed, sum, screenOut); err != nil {
			return err
		}

		fmt.Printf("Screened %d candidate(s): %d shortlisted, %d maybe, %d rejected\n",
			sum.Total(), sum.Shortlisted, sum.Maybe, sum.Rejected)
		fmt.Printf("Report written to %s\n", screenOut)
		return nil
	},
}

func init() {
	screenCmd.Flags().StringVar(&screenOut, "out", "screening_results.xlsx", "output workbook path")
	rootCmd.AddCommand(screenCmd)
}
