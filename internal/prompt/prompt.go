// Package prompt composes the deterministic instruction prompts sent to the
// inference service. Field names, shapes and guidance come from the schema
// package so the prompt can never drift from the validator.
package prompt

import (
	"strings"

	"github.com/docsift/docsift/internal/schema"
)

// Builder renders extraction and correction prompts.
type Builder struct {
	fields []schema.Field
}

// NewBuilder returns a Builder over the canonical extraction schema.
func NewBuilder() *Builder {
	return &Builder{fields: schema.Fields()}
}

// Base renders the first-attempt prompt: task statement, field list with
// types and constraints, an explicit output-shape example, and the cleaned
// document text verbatim.
func (b *Builder) Base(cleaned string) string {
	var sb strings.Builder

	sb.WriteString("You are an expert HR analyst and document parser. ")
	sb.WriteString("Read the entire document below and extract its key features into a single JSON object.\n\n")

	sb.WriteString("Fields to extract:\n")
	for _, f := range b.fields {
		sb.WriteString("- `")
		sb.WriteString(f.Name)
		sb.WriteString("` (")
		sb.WriteString(kindName(f.Kind))
		sb.WriteString("): ")
		sb.WriteString(f.Description)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString("Output shape:\n")
	sb.WriteString(schema.ExampleJSON())
	sb.WriteString("\n\n")

	sb.WriteString("Rules:\n")
	sb.WriteString("- Return ONLY the JSON object. No explanation, no markdown fences, no surrounding commentary.\n")
	sb.WriteString("- Every list field must be a JSON array of strings; use [] when nothing applies.\n")
	sb.WriteString("- Do not invent content that is not present in the document.\n\n")

	sb.WriteString("Document:\n")
	sb.WriteString("<<<TEXT_START>>>\n")
	sb.WriteString(cleaned)
	sb.WriteString("\n<<<TEXT_END>>>\n")

	return sb.String()
}

// Corrective renders a retry prompt: the base prompt plus the previous raw
// response and the specific error that rejected it, framed as a correction
// request.
func (b *Builder) Corrective(cleaned, lastRaw, cause string) string {
	var sb strings.Builder

	sb.WriteString(b.Base(cleaned))
	sb.WriteString("\nYour previous response was rejected.\n")
	sb.WriteString("Reason: ")
	sb.WriteString(cause)
	sb.WriteString("\n\nPrevious response:\n")
	sb.WriteString("<<<RESPONSE_START>>>\n")
	sb.WriteString(lastRaw)
	sb.WriteString("\n<<<RESPONSE_END>>>\n\n")
	sb.WriteString("Correct the problem and return ONLY the valid JSON object.\n")

	return sb.String()
}

func kindName(k schema.Kind) string {
	switch k {
	case schema.KindStringList:
		return "list of strings"
	default:
		return "string"
	}
}
