package screen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecideThresholds(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	tests := []struct {
		score float64
		want  Decision
	}{
		{100, Shortlisted},
		{69, Shortlisted}, // boundary is inclusive
		{68.9, Maybe},
		{50, Maybe}, // boundary is inclusive
		{49.9, Rejected},
		{0, Rejected},
	}
	for _, tt := range tests {
		if got := e.Decide(tt.score); got != tt.want {
			t.Errorf("Decide(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestDecideCustomThresholds(t *testing.T) {
	e := NewEngine(Thresholds{Shortlist: 80, Reject: 60})
	if got := e.Decide(75); got != Maybe {
		t.Errorf("Decide(75) = %q, want %q", got, Maybe)
	}
	if got := e.Decide(80); got != Shortlisted {
		t.Errorf("Decide(80) = %q, want %q", got, Shortlisted)
	}
}

func TestReasoning(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	t.Run("includes score", func(t *testing.T) {
		got := e.Reasoning(72.5, Shortlisted, nil)
		if !strings.Contains(got, "72.5%") {
			t.Errorf("reasoning missing score: %q", got)
		}
	})

	t.Run("section highlights and concerns", func(t *testing.T) {
		sections := map[string]float64{
			"skills":        85,
			"experience":    42,
			"overall_score": 60, // never analyzed as a section
		}
		got := e.Reasoning(60, Maybe, sections)
		if !strings.Contains(got, "Strong areas: Skills: 85.0%") {
			t.Errorf("highlights missing: %q", got)
		}
		if !strings.Contains(got, "Areas for review: Experience: 42.0%") {
			t.Errorf("concerns missing: %q", got)
		}
		if strings.Contains(got, "Overall_score") {
			t.Errorf("overall_score leaked into analysis: %q", got)
		}
	})

	t.Run("distinct text per decision", func(t *testing.T) {
		texts := map[Decision]string{}
		for _, d := range []Decision{Shortlisted, Maybe, Rejected} {
			texts[d] = e.Reasoning(55, d, nil)
		}
		if texts[Shortlisted] == texts[Maybe] || texts[Maybe] == texts[Rejected] {
			t.Error("reasoning text does not vary by decision")
		}
	})
}

func TestProcessCandidates(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	in := []Candidate{
		{Name: "Ada", SimilarityScore: 84},
		{Name: "Bob", SimilarityScore: 55},
		{Name: "Cam", SimilarityScore: 30},
		{Name: "Dee", SimilarityScore: 69},
	}

	out, sum := e.ProcessCandidates(in)

	if sum.Shortlisted != 2 || sum.Maybe != 1 || sum.Rejected != 1 {
		t.Errorf("summary = %+v, want 2/1/1", sum)
	}
	if sum.Total() != 4 {
		t.Errorf("total = %d, want 4", sum.Total())
	}
	for i, c := range out {
		if c.Name != in[i].Name {
			t.Errorf("order changed at %d: %q", i, c.Name)
		}
		if c.Decision == "" || c.Reasoning == "" {
			t.Errorf("candidate %q missing decision or reasoning", c.Name)
		}
	}
}

func TestLoadCandidates(t *testing.T) {
	dir := t.TempDir()

	t.Run("bare array", func(t *testing.T) {
		path := filepath.Join(dir, "bare.json")
		content := `[{"name": "Ada", "similarity_score": 84.2}]`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := LoadCandidates(path)
		if err != nil {
			t.Fatalf("LoadCandidates error: %v", err)
		}
		if len(got) != 1 || got[0].Name != "Ada" || got[0].SimilarityScore != 84.2 {
			t.Errorf("unexpected candidates: %+v", got)
		}
	})

	t.Run("wrapped object", func(t *testing.T) {
		path := filepath.Join(dir, "wrapped.json")
		content := `{"candidates": [{"name": "Bob", "similarity_score": 51}]}`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := LoadCandidates(path)
		if err != nil {
			t.Fatalf("LoadCandidates error: %v", err)
		}
		if len(got) != 1 || got[0].Name != "Bob" {
			t.Errorf("unexpected candidates: %+v", got)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadCandidates(path); err == nil {
			t.Fatal("LoadCandidates succeeded on invalid input")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadCandidates(filepath.Join(dir, "nope.json")); err == nil {
			t.Fatal("LoadCandidates succeeded on missing file")
		}
	})
}
