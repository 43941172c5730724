// Package screen classifies already-scored candidates against configurable
// thresholds and produces human-readable reasoning for each decision. It
// consumes validated extraction records; it never talks to the inference
// service.
package screen

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Decision is the screening outcome for one candidate.
type Decision string

const (
	Shortlisted Decision = "Shortlisted"
	Maybe       Decision = "Maybe"
	Rejected    Decision = "Rejected"
)

// Thresholds are score cutoffs on a 0-100 scale. A score at or above
// Shortlist shortlists; at or above Reject lands in Maybe; below rejects.
type Thresholds struct {
	Shortlist float64
	Reject    float64
}

// DefaultThresholds mirror the configuration defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{Shortlist: 69, Reject: 50}
}

// Candidate is one scored candidate read from the scoring stage's output.
type Candidate struct {
	Name            string             `json:"name"`
	Email           string             `json:"email,omitempty"`
	SimilarityScore float64            `json:"similarity_score"`
	SectionScores   map[string]float64 `json:"section_scores,omitempty"`
	ResumePath      string             `json:"resume_path,omitempty"`

	// Filled by ProcessCandidates.
	Decision  Decision `json:"decision,omitempty"`
	Reasoning string   `json:"reasoning,omitempty"`
}

// Summary counts candidates per decision.
type Summary struct {
	Shortlisted int
	Maybe       int
	Rejected    int
}

// Total returns the number of processed candidates.
func (s Summary) Total() int { return s.Shortlisted + s.Maybe + s.Rejected }

// Engine applies thresholds and builds reasoning text.
type Engine struct {
	thresholds Thresholds
}

// NewEngine builds an Engine; zero thresholds take the defaults.
func NewEngine(t Thresholds) *Engine {
	if t.Shortlist == 0 && t.Reject == 0 {
		t = DefaultThresholds()
	}
	return &Engine{thresholds: t}
}

// Decide maps a similarity score to a decision.
func (e *Engine) Decide(score float64) Decision {
	switch {
	case score >= e.thresholds.Shortlist:
		return Shortlisted
	case score >= e.thresholds.Reject:
		return Maybe
	default:
		return Rejected
	}
}

// Reasoning renders the decision explanation, highlighting strong and weak
// sections when section scores are available.
func (e *Engine) Reasoning(score float64, decision Decision, sections map[string]float64) string {
	formatted := fmt.Sprintf("%.1f%%", score)

	analysis := sectionAnalysis(sections)

	switch decision {
	case Shortlisted:
		return fmt.Sprintf(
			"Strong match with job requirements. Overall similarity score: %s.%s "+
				"Candidate demonstrates excellent alignment with required skills and qualifications, "+
				"making this candidate a prime choice for further interview rounds.",
			formatted, analysis)
	case Maybe:
		return fmt.Sprintf(
			"Moderate match with requirements. Overall similarity score: %s.%s "+
				"Candidate shows partial alignment with job requirements and is recommended "+
				"for further review to evaluate potential fit.",
			formatted, analysis)
	case Rejected:
		return fmt.Sprintf(
			"Insufficient match with job requirements. Overall similarity score: %s.%s "+
				"The score indicates limited alignment with required competencies; consider for "+
				"alternative positions or future opportunities.",
			formatted, analysis)
	default:
		return fmt.Sprintf("Overall similarity score: %s", formatted)
	}
}

func sectionAnalysis(sections map[string]float64) string {
	if len(sections) == 0 {
		return ""
	}

	names := make([]string, 0, len(sections))
	for name := range sections {
		if name == "overall_score" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var highlights, concerns []string
	for _, name := range names {
		score := sections[name]
		entry := fmt.Sprintf("%s: %.1f%%", capitalize(name), score)
		switch {
		case score >= 70:
			highlights = append(highlights, entry)
		case score < 50:
			concerns = append(concerns, entry)
		}
	}

	var b strings.Builder
	if len(highlights) > 0 {
		b.WriteString(" Strong areas: " + strings.Join(highlights, ", ") + ".")
	}
	if len(concerns) > 0 {
		b.WriteString(" Areas for review: " + strings.Join(concerns, ", ") + ".")
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ProcessCandidates fills Decision and Reasoning on every candidate and
// returns the per-decision counts. Input order is preserved.
func (e *Engine) ProcessCandidates(candidates []Candidate) ([]Candidate, Summary) {
	out := make([]Candidate, len(candidates))
	var sum Summary
	for i, c := range candidates {
		c.Decision = e.Decide(c.SimilarityScore)
		c.Reasoning = e.Reasoning(c.SimilarityScore, c.Decision, c.SectionScores)
		switch c.Decision {
		case Shortlisted:
			sum.Shortlisted++
		case Maybe:
			sum.Maybe++
		case Rejected:
			sum.Rejected++
		}
		out[i] = c
	}
	return out, sum
}

// LoadCandidates parses the scoring stage's JSON output: either a bare array
// of candidates or an object with a "candidates" key.
func LoadCandidates(path string) ([]Candidate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candidates file: %w", err)
	}

	var list []Candidate
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Candidates []Candidate `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("parse candidates file %s: %w", path, err)
	}
	return wrapped.Candidates, nil
}
