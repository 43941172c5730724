package score

import (
	"context"
	"math"
	"testing"

	"github.com/docsift/docsift/internal/providers"
	"github.com/docsift/docsift/internal/schema"
)

// fakeEmbedder maps each input string to a fixed vector.
type fakeEmbedder struct {
	vectors map[string][]float64
	calls   int
}

func (f *fakeEmbedder) Embed(_ context.Context, req *providers.EmbedRequest) (*providers.EmbedResult, error) {
	f.calls++
	out := make([][]float64, len(req.Input))
	for i, s := range req.Input {
		v, ok := f.vectors[s]
		if !ok {
			v = []float64{0, 0, 1}
		}
		out[i] = v
	}
	return &providers.EmbedResult{Embeddings: out, Model: req.Model}, nil
}

func approx(t *testing.T, got, want float64, what string) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Errorf("%s = %.4f, want %.4f", what, got, want)
	}
}

func TestCosine(t *testing.T) {
	if got := cosine([]float64{1, 0}, []float64{1, 0}); math.Abs(got-1) > 1e-6 {
		t.Errorf("identical vectors cosine = %v, want ~1", got)
	}
	if got := cosine([]float64{1, 0}, []float64{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors cosine = %v, want 0", got)
	}
	// Zero vectors must not divide by zero.
	if got := cosine([]float64{0, 0}, []float64{0, 0}); got != 0 {
		t.Errorf("zero vectors cosine = %v, want 0", got)
	}
}

func TestEmbedRecordSlicesFields(t *testing.T) {
	fe := &fakeEmbedder{vectors: map[string][]float64{}}
	s := NewScorer(ScorerConfig{Embedder: fe, Model: "test-embed"})

	rec := &schema.Record{
		Summary:          "network engineer",
		Skills:           []string{"BGP", "OSPF"},
		Responsibilities: []string{"design networks"},
		Certifications:   []string{},
	}

	fv, err := s.EmbedRecord(context.Background(), rec)
	if err != nil {
		t.Fatalf("EmbedRecord error: %v", err)
	}
	if fe.calls != 1 {
		t.Errorf("embed calls = %d, want 1 batch call", fe.calls)
	}
	if fv.Summary == nil {
		t.Error("summary vector missing")
	}
	if len(fv.Skills) != 2 || len(fv.Responsibilities) != 1 || len(fv.Certifications) != 0 {
		t.Errorf("vector counts = %d/%d/%d, want 2/1/0",
			len(fv.Skills), len(fv.Responsibilities), len(fv.Certifications))
	}
}

func TestEmbedRecordEmpty(t *testing.T) {
	fe := &fakeEmbedder{vectors: map[string][]float64{}}
	s := NewScorer(ScorerConfig{Embedder: fe, Model: "test-embed"})

	fv, err := s.EmbedRecord(context.Background(), &schema.Record{})
	if err != nil {
		t.Fatalf("EmbedRecord error: %v", err)
	}
	if fe.calls != 0 {
		t.Errorf("embed calls = %d, want 0 for empty record", fe.calls)
	}
	if fv.Summary != nil || len(fv.Skills) != 0 {
		t.Errorf("unexpected vectors for empty record: %+v", fv)
	}
}

func TestComparePerfectMatch(t *testing.T) {
	v := []float64{1, 0, 0}
	fv := &FieldVectors{
		Summary:          v,
		Skills:           [][]float64{v, v},
		Responsibilities: [][]float64{v},
		Certifications:   [][]float64{v},
	}

	r := Compare(fv, fv)
	for name, score := range r.Sections {
		approx(t, score, 100, "section "+name)
	}
	approx(t, r.Overall, 100, "overall")
}

func TestCompareEmptyFieldsScoreZero(t *testing.T) {
	v := []float64{1, 0}
	jd := &FieldVectors{
		Summary: v,
		Skills:  [][]float64{v},
	}
	resume := &FieldVectors{
		Summary: v,
		// No skills, responsibilities, or certifications.
	}

	r := Compare(jd, resume)
	approx(t, r.Sections["summary"], 100, "summary")
	for _, name := range []string{"skills", "responsibilities", "certifications"} {
		if got := r.Sections[name]; got != 0 {
			t.Errorf("section %s = %v, want 0", name, got)
		}
	}
	// Only the summary weight contributes.
	approx(t, r.Overall, 20, "overall")
}

func TestComparePartialCoverage(t *testing.T) {
	x := []float64{1, 0}
	y := []float64{0, 1}
	jd := &FieldVectors{Skills: [][]float64{x, y}}
	resume := &FieldVectors{Skills: [][]float64{x}}

	r := Compare(jd, resume)
	// One of two required skills matched: mean of best matches is 50%.
	approx(t, r.Sections["skills"], 50, "skills")
}

func TestCompareAlwaysReportsAllSections(t *testing.T) {
	r := Compare(&FieldVectors{}, &FieldVectors{})
	for _, name := range []string{"summary", "skills", "responsibilities", "certifications"} {
		if _, ok := r.Sections[name]; !ok {
			t.Errorf("section %q missing from report", name)
		}
	}
	if r.Overall != 0 {
		t.Errorf("overall = %v, want 0", r.Overall)
	}
}

func TestCompareWeighting(t *testing.T) {
	x := []float64{1, 0}
	jd := &FieldVectors{
		Summary: x,
		Skills:  [][]float64{x},
	}
	resume := &FieldVectors{
		Summary: []float64{0, 1}, // orthogonal: summary scores 0
		Skills:  [][]float64{x},  // skills score 100
	}

	r := Compare(jd, resume)
	approx(t, r.Sections["summary"], 0, "summary")
	approx(t, r.Sections["skills"], 100, "skills")
	// 0*.20 + 100*.40 over total weight 1.0
	approx(t, r.Overall, 40, "overall")
}
