package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	batchOutDir  string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Extract records from every document in a directory",
	Long: `Process every supported document in a directory through independent
pipeline runs and write one JSON record per input.

Examples:
  docsift batch ./resumes --out ./records
  docsift batch ./resumes --out ./records --workers 4`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := cm.Get()

		p, err := newPipeline(cfg)
		if err != nil {
			return err
		}

		workers := batchWorkers
		if workers == 0 {
			workers = cfg.Extraction.BatchWorkers
		}

		result, err := p.RunDir(cmd.Context(), args[0], batchOutDir, workers)
		if err != nil {
			return err
		}

		fmt.Printf("Processed %d document(s), %d failed\n", len(result.Processed), len(result.Failed))
		for path, ferr := range result.Failed {
			fmt.Printf("  FAILED %s: %v\n", path, ferr)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchOutDir, "out", "records", "output directory for JSON records")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent pipeline runs (default from config)")
	rootCmd.AddCommand(batchCmd)
}
