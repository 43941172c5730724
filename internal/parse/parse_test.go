package parse

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{
			name: "bare object",
			raw:  `{"summary": "ok"}`,
			want: map[string]any{"summary": "ok"},
		},
		{
			name: "labeled fenced block",
			raw:  "```json\n{\"summary\": \"ok\"}\n```",
			want: map[string]any{"summary": "ok"},
		},
		{
			name: "bare fenced block",
			raw:  "```\n{\"skills\": [\"Go\"]}\n```",
			want: map[string]any{"skills": []any{"Go"}},
		},
		{
			name: "prose then labeled fence",
			raw:  "Here is the result:\n```json\n{\"summary\":\"x\",\"experience\":[],\"responsibilities\":[],\"skills\":[],\"certifications\":[]}\n```",
			want: map[string]any{
				"summary":          "x",
				"experience":       []any{},
				"responsibilities": []any{},
				"skills":           []any{},
				"certifications":   []any{},
			},
		},
		{
			name: "prose prefix and suffix",
			raw:  "Here is the JSON you asked for:\n{\"summary\": \"ok\"}\nHope that helps!",
			want: map[string]any{"summary": "ok"},
		},
		{
			name: "nested object with braces in strings",
			raw:  `text {"a": {"b": "closing } inside"}, "c": 1} trailing`,
			want: map[string]any{"a": map[string]any{"b": "closing } inside"}, "c": float64(1)},
		},
		{
			name: "escaped quote in string",
			raw:  `{"summary": "said \"hi\" {here}"}`,
			want: map[string]any{"summary": `said "hi" {here}`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractObject(tt.raw)
			if err != nil {
				t.Fatalf("ExtractObject(%q) error: %v", tt.raw, err)
			}
			for k, want := range tt.want {
				if !equalValue(got[k], want) {
					t.Errorf("key %q = %#v, want %#v", k, got[k], want)
				}
			}
		})
	}
}

func TestExtractObjectFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no braces", "I could not find any relevant information."},
		{"unbalanced", `{"summary": "ok"`},
		{"array not object", `["a", "b"]`},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractObject(tt.raw)
			if err == nil {
				t.Fatalf("ExtractObject(%q) succeeded, want error", tt.raw)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error %T, want *ParseError", err)
			}
		})
	}
}

func TestParseErrorSnippet(t *testing.T) {
	raw := "prefix " + `{"broken": ` + strings.Repeat("x", 500)
	_, err := ExtractObject(raw)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error %T, want *ParseError", err)
	}
	if perr.Snippet == "" {
		t.Fatal("snippet is empty")
	}
	if !strings.HasPrefix(perr.Snippet, `{"broken":`) {
		t.Errorf("snippet does not start at the brace: %q", perr.Snippet[:20])
	}
	if len(perr.Snippet) > snippetLimit+3 {
		t.Errorf("snippet length %d exceeds limit", len(perr.Snippet))
	}
}

func equalValue(got, want any) bool {
	switch w := want.(type) {
	case map[string]any:
		g, ok := got.(map[string]any)
		if !ok {
			return false
		}
		for k, v := range w {
			if !equalValue(g[k], v) {
				return false
			}
		}
		return true
	case []any:
		g, ok := got.([]any)
		if !ok || len(g) != len(w) {
			return false
		}
		for i := range w {
			if !equalValue(g[i], w[i]) {
				return false
			}
		}
		return true
	default:
		return got == want
	}
}
