package inbox

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestWatcherProcessesExistingAndNewFiles(t *testing.T) {
	dir := t.TempDir()

	existing := filepath.Join(dir, "existing.txt")
	if err := os.WriteFile(existing, []byte("already here"), 0o644); err != nil {
		t.Fatal(err)
	}

	var (
		mu        sync.Mutex
		processed = map[string]int{}
	)
	process := func(ctx context.Context, path string) error {
		mu.Lock()
		processed[filepath.Base(path)]++
		mu.Unlock()
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New(dir, process, nil)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Let the watcher start and drain the existing file.
	time.Sleep(200 * time.Millisecond)

	dropped := filepath.Join(dir, "dropped.txt")
	if err := os.WriteFile(dropped, []byte("new document"), 0o644); err != nil {
		t.Fatal(err)
	}

	unsupported := filepath.Join(dir, "image.png")
	if err := os.WriteFile(unsupported, []byte("binary"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitFor(t, 5*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return processed["existing.txt"] >= 1 && processed["dropped.txt"] >= 1
	})

	mu.Lock()
	if processed["image.png"] != 0 {
		t.Error("unsupported file was processed")
	}
	if processed["existing.txt"] != 1 {
		t.Errorf("existing.txt processed %d times, want 1", processed["existing.txt"])
	}
	mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}

func TestWatcherMissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope"), func(context.Context, string) error { return nil }, nil)
	if err := w.Run(context.Background()); err == nil {
		t.Fatal("Run succeeded on missing directory")
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}
