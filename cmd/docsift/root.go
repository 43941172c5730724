package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/pipeline"
	"github.com/docsift/docsift/internal/providers"
	"github.com/docsift/docsift/version"
)

var (
	cfgFile string
	homeDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docsift",
	Short: "Document feature extraction pipeline backed by a local LLM",
	Long: `Docsift turns semi-structured documents (resumes, job descriptions) into
schema-validated JSON records by delegating semantic interpretation to a
locally running LLM.

The pipeline includes:
  - Dual-method text extraction with automatic fallback
  - Deterministic text normalization
  - Corrective retries when the model returns malformed output
  - Threshold-based candidate screening and XLSX reporting`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.docsift/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "docsift home directory (default: ~/.docsift)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	rootCmd.AddCommand(versionCmd)
}

// loadConfig builds the config manager from the --config flag.
func loadConfig() (*config.Manager, error) {
	cm, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cm, nil
}

// newClient selects the inference client from configuration.
func newClient(cfg *config.Config) (providers.Client, error) {
	switch cfg.Provider {
	case "", providers.OllamaName:
		return providers.NewOllamaClient(providers.OllamaConfig{
			BaseURL: cfg.Ollama.BaseURL,
			Model:   cfg.Ollama.Model,
			Timeout: cfg.Extraction.Timeout(),
		}), nil
	case providers.OpenAIName:
		return providers.NewOpenAIClient(providers.OpenAIConfig{
			APIKey:  cfg.ResolvedAPIKey(),
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
			Timeout: cfg.Extraction.Timeout(),
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want %q or %q)", cfg.Provider, providers.OllamaName, providers.OpenAIName)
	}
}

// newPipeline assembles a pipeline from configuration.
func newPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	model := cfg.Ollama.Model
	if cfg.Provider == providers.OpenAIName {
		model = cfg.OpenAI.Model
	}

	return pipeline.New(pipeline.Config{
		Model:         model,
		Timeout:       cfg.Extraction.Timeout(),
		MaxRetries:    cfg.Extraction.MaxRetries,
		MinTextLength: cfg.Extraction.MinTextLength,
		BackoffBase:   cfg.Extraction.BackoffBase(),
		Options: providers.GenerateOptions{
			Temperature: cfg.Extraction.Temperature,
			TopP:        cfg.Extraction.TopP,
			TopK:        cfg.Extraction.TopK,
		},
	}, client), nil
}
