// Package parse recovers a single JSON object from raw model output that may
// be wrapped in prose, fenced code blocks, or both.
package parse

import (
	"encoding/json"
	"fmt"
	"strings"
)

const snippetLimit = 240

// ParseError reports model output that could not be recovered as a JSON
// object. It retains the offending substring for diagnostics and corrective
// re-prompting.
type ParseError struct {
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no JSON object recoverable from model output: %v (near %q)", e.Err, e.Snippet)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExtractObject locates the first balanced JSON object in raw text and parses
// it. If the direct parse fails, code-fence markers are stripped and the scan
// retried once. The returned map is the decoded object.
func ExtractObject(raw string) (map[string]any, error) {
	obj, err := scanAndParse(raw)
	if err == nil {
		return obj, nil
	}

	stripped := stripFences(raw)
	if stripped != raw {
		if obj, retryErr := scanAndParse(stripped); retryErr == nil {
			return obj, nil
		}
	}

	return nil, &ParseError{Snippet: snippet(raw), Err: err}
}

// scanAndParse finds the span from the first '{' to its balanced '}' while
// tracking nesting depth and string-literal escaping, then parses that span.
func scanAndParse(s string) (map[string]any, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return nil, fmt.Errorf("no opening brace")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				span := s[start : i+1]
				var obj map[string]any
				if err := json.Unmarshal([]byte(span), &obj); err != nil {
					return nil, err
				}
				return obj, nil
			}
		}
	}
	return nil, fmt.Errorf("unbalanced braces")
}

// stripFences removes markdown code-fence lines, labeled or bare.
func stripFences(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if start := strings.IndexByte(s, '{'); start >= 0 {
		s = s[start:]
	}
	if len(s) > snippetLimit {
		return s[:snippetLimit] + "..."
	}
	return s
}
