package prompt

import (
	"strings"
	"testing"

	"github.com/docsift/docsift/internal/schema"
)

func TestBaseDeterministic(t *testing.T) {
	b := NewBuilder()
	text := "Senior engineer with 5 years of Go."
	if b.Base(text) != b.Base(text) {
		t.Fatal("Base is not deterministic for identical input")
	}
}

func TestBaseContents(t *testing.T) {
	b := NewBuilder()
	text := "Senior engineer with 5 years of Go."
	got := b.Base(text)

	for _, f := range schema.Fields() {
		if !strings.Contains(got, "`"+f.Name+"`") {
			t.Errorf("prompt missing field %q", f.Name)
		}
	}
	if !strings.Contains(got, schema.ExampleJSON()) {
		t.Error("prompt missing output-shape example")
	}
	if !strings.Contains(got, "Return ONLY the JSON object") {
		t.Error("prompt missing JSON-only rule")
	}
	if !strings.Contains(got, "<<<TEXT_START>>>\n"+text+"\n<<<TEXT_END>>>") {
		t.Error("prompt does not embed document text verbatim between markers")
	}
}

func TestCorrective(t *testing.T) {
	b := NewBuilder()
	text := "Senior engineer."
	lastRaw := `{"summary": "broken`
	cause := "no JSON object recoverable from model output"

	got := b.Corrective(text, lastRaw, cause)

	if !strings.Contains(got, b.Base(text)) {
		t.Error("corrective prompt does not include the base prompt")
	}
	if !strings.Contains(got, "<<<RESPONSE_START>>>\n"+lastRaw+"\n<<<RESPONSE_END>>>") {
		t.Error("corrective prompt does not embed the previous response verbatim")
	}
	if !strings.Contains(got, cause) {
		t.Error("corrective prompt does not state the rejection reason")
	}
}

func TestCorrectiveDeterministic(t *testing.T) {
	b := NewBuilder()
	p1 := b.Corrective("text", "raw", "cause")
	p2 := b.Corrective("text", "raw", "cause")
	if p1 != p2 {
		t.Fatal("Corrective is not deterministic for identical input")
	}
}
