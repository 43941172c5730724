// Package score computes similarity between a job description record and
// candidate records using per-field embedding vectors. The summary field is
// compared vector-to-vector; list fields (skills, responsibilities,
// certifications) embed each item and average the best match per required
// item, so a resume covering more of the requirements scores higher.
package score

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/docsift/docsift/internal/providers"
	"github.com/docsift/docsift/internal/schema"
)

// Section weights for the overall score. Skills dominate; certifications
// matter least.
var sectionWeights = map[string]float64{
	"summary":          0.20,
	"skills":           0.40,
	"responsibilities": 0.30,
	"certifications":   0.10,
}

// FieldVectors holds the embedding vectors for one record's scored fields.
// Summary is a single vector; list fields carry one vector per item. A nil
// or empty entry means the record had nothing to embed for that field.
type FieldVectors struct {
	Summary          []float64
	Skills           [][]float64
	Responsibilities [][]float64
	Certifications   [][]float64
}

// Report is the outcome of comparing one resume against the job description.
// Sections always carries all four field scores (0-100); Overall is the
// weighted combination.
type Report struct {
	Sections map[string]float64
	Overall  float64
}

// Scorer embeds records and compares them.
type Scorer struct {
	embedder providers.Embedder
	model    string
	logger   *slog.Logger
}

// ScorerConfig configures a Scorer.
type ScorerConfig struct {
	Embedder providers.Embedder
	Model    string
	Logger   *slog.Logger
}

// NewScorer builds a Scorer.
func NewScorer(cfg ScorerConfig) *Scorer {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Scorer{
		embedder: cfg.Embedder,
		model:    cfg.Model,
		logger:   cfg.Logger,
	}
}

// EmbedRecord embeds all scored fields of a record in a single batch call.
// Empty fields are skipped and come back as empty vectors.
func (s *Scorer) EmbedRecord(ctx context.Context, rec *schema.Record) (*FieldVectors, error) {
	var input []string
	summaryAt := -1
	if rec.Summary != "" {
		summaryAt = len(input)
		input = append(input, rec.Summary)
	}
	skillsAt := len(input)
	input = append(input, rec.Skills...)
	respAt := len(input)
	input = append(input, rec.Responsibilities...)
	certsAt := len(input)
	input = append(input, rec.Certifications...)

	fv := &FieldVectors{}
	if len(input) == 0 {
		return fv, nil
	}

	res, err := s.embedder.Embed(ctx, &providers.EmbedRequest{
		Model: s.model,
		Input: input,
	})
	if err != nil {
		return nil, fmt.Errorf("embed record fields: %w", err)
	}

	if summaryAt >= 0 {
		fv.Summary = res.Embeddings[summaryAt]
	}
	fv.Skills = res.Embeddings[skillsAt:respAt]
	fv.Responsibilities = res.Embeddings[respAt:certsAt]
	fv.Certifications = res.Embeddings[certsAt:]

	s.logger.Debug("score.embed_record",
		"inputs", len(input),
		"skills", len(fv.Skills),
		"responsibilities", len(fv.Responsibilities),
		"certifications", len(fv.Certifications),
	)
	return fv, nil
}

// Compare scores a resume's vectors against the job description's. Fields
// empty on either side score 0.
func Compare(jd, resume *FieldVectors) *Report {
	sections := map[string]float64{
		"summary":          summaryScore(jd.Summary, resume.Summary),
		"skills":           coverageScore(jd.Skills, resume.Skills),
		"responsibilities": coverageScore(jd.Responsibilities, resume.Responsibilities),
		"certifications":   coverageScore(jd.Certifications, resume.Certifications),
	}

	var weighted, total float64
	for name, w := range sectionWeights {
		weighted += sections[name] * w
		total += w
	}

	return &Report{
		Sections: sections,
		Overall:  weighted / total,
	}
}

func summaryScore(jd, resume []float64) float64 {
	if len(jd) == 0 || len(resume) == 0 {
		return 0
	}
	return cosine(jd, resume) * 100
}

// coverageScore averages, over every required item, the best cosine match
// among the resume's items. Unmatched requirements drag the mean down.
func coverageScore(jd, resume [][]float64) float64 {
	if len(jd) == 0 || len(resume) == 0 {
		return 0
	}
	var sum float64
	for _, want := range jd {
		best := 0.0
		for _, have := range resume {
			if c := cosine(want, have); c > best {
				best = c
			}
		}
		sum += best
	}
	return sum / float64(len(jd)) * 100
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + 1e-8)
}
