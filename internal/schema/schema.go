// Package schema defines the structured record extracted from a document and
// is the single source of truth for its field names, shapes and defaults.
// Both prompt construction and response validation read from it so the two
// cannot drift apart.
package schema

import (
	"encoding/json"
	"strings"
)

// Kind describes the shape of a record field.
type Kind int

const (
	KindString Kind = iota
	KindStringList
)

// Field describes one field of the extraction schema.
type Field struct {
	Name        string
	Kind        Kind
	Description string
}

// Fields returns the extraction schema in canonical field order.
func Fields() []Field {
	return []Field{
		{Name: "summary", Kind: KindString, Description: "The verbatim professional summary or role overview section."},
		{Name: "experience", Kind: KindStringList, Description: "Work history entries, one concise string per position."},
		{Name: "responsibilities", Kind: KindStringList, Description: "Every phrase describing a duty, task or expectation. Look for action verbs and bulleted lists under any heading."},
		{Name: "skills", Kind: KindStringList, Description: "All technical skills, tools, languages and methodologies found anywhere in the document."},
		{Name: "certifications", Kind: KindStringList, Description: "All professional certifications mentioned (e.g. CCNP, AWS Certified, PMP)."},
	}
}

// Record is the validated output of an extraction run. List fields are never
// nil; skills are case-insensitively deduplicated. A Record is not mutated
// after validation.
type Record struct {
	Summary          string   `json:"summary"`
	Experience       []string `json:"experience"`
	Responsibilities []string `json:"responsibilities"`
	Skills           []string `json:"skills"`
	Certifications   []string `json:"certifications"`
}

// NewRecord returns a Record with every field at its schema default.
func NewRecord() *Record {
	return &Record{
		Experience:       []string{},
		Responsibilities: []string{},
		Skills:           []string{},
		Certifications:   []string{},
	}
}

// JSON serializes the record with stable field order.
func (r *Record) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ParseRecord deserializes a record previously produced by JSON, applying
// defaults for absent list fields.
func ParseRecord(data []byte) (*Record, error) {
	rec := NewRecord()
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, err
	}
	for _, f := range []*[]string{&rec.Experience, &rec.Responsibilities, &rec.Skills, &rec.Certifications} {
		if *f == nil {
			*f = []string{}
		}
	}
	rec.Skills = dedupeFold(rec.Skills)
	return rec, nil
}

// ExampleJSON returns the output-shape example embedded in prompts. It is
// generated from Fields so prompt and validator stay aligned.
func ExampleJSON() string {
	var b strings.Builder
	b.WriteString("{\n")
	fields := Fields()
	for i, f := range fields {
		b.WriteString("  \"" + f.Name + "\": ")
		switch f.Kind {
		case KindString:
			b.WriteString(`""`)
		case KindStringList:
			b.WriteString("[]")
		}
		if i < len(fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// dedupeFold removes case-insensitive duplicates preserving first-seen casing
// and order.
func dedupeFold(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		key := strings.ToLower(strings.TrimSpace(it))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(it))
	}
	return out
}
