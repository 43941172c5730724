package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/providers"
	"github.com/docsift/docsift/internal/schema"
	"github.com/docsift/docsift/internal/score"
	"github.com/docsift/docsift/internal/screen"
)

var scoreOut string

var scoreCmd = &cobra.Command{
	Use:   "score <job.json> <records-dir>",
	Short: "Score extracted records against a job description",
	Long: `Compare every extracted record in a directory against a job description
record using embedding similarity, and write scored candidates as JSON.

Each record's summary, skills, responsibilities, and certifications are
embedded through the configured Ollama embedding model and compared
field-by-field against the job description. The output feeds directly
into "docsift screen".

Examples:
  docsift score job.json records/
  docsift score job.json records/ --out scores.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := cm.Get()

		jdRaw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read job description record: %w", err)
		}
		jd, err := schema.ParseRecord(jdRaw)
		if err != nil {
			return fmt.Errorf("parse job description record: %w", err)
		}

		entries, err := os.ReadDir(args[1])
		if err != nil {
			return fmt.Errorf("read records directory: %w", err)
		}

		client := providers.NewOllamaClient(providers.OllamaConfig{
			BaseURL: cfg.Ollama.BaseURL,
			Model:   cfg.Ollama.EmbedModel,
			Timeout: cfg.Extraction.Timeout(),
		})
		ctx := cmd.Context()
		if err := client.Check(ctx); err != nil {
			return err
		}

		scorer := score.NewScorer(score.ScorerConfig{
			Embedder: client,
			Model:    cfg.Ollama.EmbedModel,
			Logger:   slog.Default(),
		})

		jdVectors, err := scorer.EmbedRecord(ctx, jd)
		if err != nil {
			return fmt.Errorf("embed job description: %w", err)
		}

		var candidates []screen.Candidate
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
				continue
			}
			path := filepath.Join(args[1], entry.Name())

			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read record %s: %w", path, err)
			}
			rec, err := schema.ParseRecord(raw)
			if err != nil {
				slog.Warn("skipping unparseable record", "path", path, "error", err)
				continue
			}

			vectors, err := scorer.EmbedRecord(ctx, rec)
			if err != nil {
				return fmt.Errorf("embed record %s: %w", path, err)
			}

			r := score.Compare(jdVectors, vectors)
			name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			candidates = append(candidates, screen.Candidate{
				Name:            name,
				SimilarityScore: r.Overall,
				SectionScores:   r.Sections,
				ResumePath:      path,
			})
			fmt.Printf("%s: %.1f%%\n", name, r.Overall)
		}

		if len(candidates) == 0 {
			return fmt.Errorf("no records found in %s", args[1])
		}

		data, err := json.MarshalIndent(candidates, "", "  ")
		if err != nil {
			return fmt.Errorf("encode candidates: %w", err)
		}
		if err := os.WriteFile(scoreOut, data, 0o644); err != nil {
			return fmt.Errorf("write candidates: %w", err)
		}

		fmt.Printf("Scored %d candidate(s), written to %s\n", len(candidates), scoreOut)
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreOut, "out", "scores.json", "output candidates path")
	rootCmd.AddCommand(scoreCmd)
}
