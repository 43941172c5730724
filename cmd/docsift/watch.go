package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/inbox"
	"github.com/docsift/docsift/internal/pipeline"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch an inbox directory and extract records as documents arrive",
	Long: `Watch the configured inbox directory. Each document dropped into it is
run through the extraction pipeline and its JSON record written to the
configured output directory. Configuration changes are hot-reloaded.

Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := loadConfig()
		if err != nil {
			return err
		}

		cfg := cm.Get()
		if err := os.MkdirAll(cfg.Inbox.Dir, 0o755); err != nil {
			return fmt.Errorf("create inbox dir: %w", err)
		}
		if err := os.MkdirAll(cfg.Inbox.OutDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		p, err := newPipeline(cfg)
		if err != nil {
			return err
		}

		// Hot-reload swaps the pipeline; in-flight runs keep the old one.
		var current atomic.Pointer[pipeline.Pipeline]
		current.Store(p)
		cm.OnChange(func(next *config.Config) {
			np, err := newPipeline(next)
			if err != nil {
				slog.Error("config reload failed", "error", err)
				return
			}
			current.Store(np)
			slog.Info("configuration reloaded")
		})
		cm.WatchConfig()

		process := func(ctx context.Context, path string) error {
			rec, err := current.Load().Run(ctx, path)
			if err != nil {
				return err
			}
			data, err := rec.JSON()
			if err != nil {
				return err
			}
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			return os.WriteFile(filepath.Join(cfg.Inbox.OutDir, base+".json"), data, 0o644)
		}

		w := inbox.New(cfg.Inbox.Dir, process, slog.Default())
		if err := w.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
