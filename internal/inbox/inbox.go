// Package inbox watches a directory for newly dropped documents and feeds
// them through a processing callback. Partial writes are debounced by
// waiting for the file size to settle before processing.
package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docsift/docsift/internal/extract"
)

const settleInterval = 500 * time.Millisecond

// ProcessFunc handles one settled document.
type ProcessFunc func(ctx context.Context, path string) error

// Watcher monitors one directory.
type Watcher struct {
	dir     string
	process ProcessFunc
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

// New creates a Watcher over dir.
func New(dir string, process ProcessFunc, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		dir:     dir,
		process: process,
		logger:  logger,
		pending: make(map[string]struct{}),
	}
}

// Run watches until the context is canceled. Documents already present at
// startup are processed first.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching inbox", "dir", w.dir)

	if err := w.drainExisting(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !extract.SupportedExt(event.Name) {
				continue
			}
			w.enqueue(ctx, event.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) drainExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read inbox: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, e.Name())
		if extract.SupportedExt(path) {
			w.enqueue(ctx, path)
		}
	}
	return nil
}

// enqueue schedules a file for processing once; repeat write events for a
// file already pending are ignored.
func (w *Watcher) enqueue(ctx context.Context, path string) {
	w.mu.Lock()
	if _, busy := w.pending[path]; busy {
		w.mu.Unlock()
		return
	}
	w.pending[path] = struct{}{}
	w.mu.Unlock()

	go func() {
		defer func() {
			w.mu.Lock()
			delete(w.pending, path)
			w.mu.Unlock()
		}()

		if err := w.waitSettled(ctx, path); err != nil {
			return
		}
		if err := w.process(ctx, path); err != nil {
			w.logger.Error("inbox document failed", "path", path, "error", err)
			return
		}
		w.logger.Info("inbox document processed", "path", path)
	}()
}

// waitSettled returns once two consecutive stats report the same size.
func (w *Watcher) waitSettled(ctx context.Context, path string) error {
	var lastSize int64 = -1
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(settleInterval):
		}

		info, err := os.Stat(path)
		if err != nil {
			return err // removed while settling
		}
		if info.Size() == lastSize {
			return nil
		}
		lastSize = info.Size()
	}
}
