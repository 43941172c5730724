package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docsift/docsift/internal/providers"
	"github.com/docsift/docsift/internal/schema"
)

func writeTxt(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunDir(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "records")

	writeTxt(t, inDir, "alice.txt", resumeText)
	writeTxt(t, inDir, "bob.txt", resumeText)
	writeTxt(t, inDir, "tiny.txt", "short") // below the minimum-length gate
	writeTxt(t, inDir, "notes.exe", resumeText)

	mock := providers.NewMockClient(validResponse)
	p := New(Config{MaxRetries: 3}, mock)

	result, err := p.RunDir(context.Background(), inDir, outDir, 2)
	if err != nil {
		t.Fatalf("RunDir error: %v", err)
	}

	if len(result.Processed) != 2 {
		t.Errorf("processed = %v, want 2 records", result.Processed)
	}
	if len(result.Failed) != 1 {
		t.Errorf("failed = %v, want 1 entry", result.Failed)
	}
	if _, ok := result.Failed[filepath.Join(inDir, "tiny.txt")]; !ok {
		t.Errorf("tiny.txt not among failures: %v", result.Failed)
	}

	for _, outPath := range result.Processed {
		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("read %s: %v", outPath, err)
		}
		rec, err := schema.ParseRecord(data)
		if err != nil {
			t.Fatalf("parse %s: %v", outPath, err)
		}
		if rec.Summary != "Senior engineer." {
			t.Errorf("%s summary = %q", outPath, rec.Summary)
		}
	}
}

func TestRunDirEmpty(t *testing.T) {
	inDir := t.TempDir()
	mock := providers.NewMockClient(validResponse)
	p := New(Config{MaxRetries: 3}, mock)

	if _, err := p.RunDir(context.Background(), inDir, t.TempDir(), 2); err == nil {
		t.Fatal("RunDir succeeded on empty directory, want error")
	}
}

func TestRunDirMissing(t *testing.T) {
	mock := providers.NewMockClient(validResponse)
	p := New(Config{MaxRetries: 3}, mock)

	if _, err := p.RunDir(context.Background(), "/does/not/exist", t.TempDir(), 2); err == nil {
		t.Fatal("RunDir succeeded on missing directory, want error")
	}
}
