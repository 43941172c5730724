package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/docsift/docsift/internal/extract"
)

// BatchResult summarizes a directory run.
type BatchResult struct {
	Processed []string // output JSON paths
	Failed    map[string]error
}

// RunDir processes every supported document in inDir through independent
// pipeline runs, writing <name>.json into outDir. Runs share no mutable
// state, so they fan out across a bounded set of workers.
func (p *Pipeline) RunDir(ctx context.Context, inDir, outDir string, workers int) (*BatchResult, error) {
	if workers <= 0 {
		workers = 2
	}

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(inDir, e.Name())
		if extract.SupportedExt(path) {
			paths = append(paths, path)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no supported documents in %s", inDir)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	result := &BatchResult{Failed: map[string]error{}}
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, workers)
	)

	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()

			outPath, err := p.runToFile(ctx, path, outDir)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[path] = err
				p.logger.Error("document failed", "path", path, "error", err)
				return
			}
			result.Processed = append(result.Processed, outPath)
		}(path)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	p.logger.Info("batch complete", "processed", len(result.Processed), "failed", len(result.Failed))
	return result, nil
}

func (p *Pipeline) runToFile(ctx context.Context, path, outDir string) (string, error) {
	rec, err := p.Run(ctx, path)
	if err != nil {
		return "", err
	}
	data, err := rec.JSON()
	if err != nil {
		return "", fmt.Errorf("serialize record: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(outDir, base+".json")
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write record: %w", err)
	}
	return outPath, nil
}
