package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationError reports a parsed value that cannot be coerced into the
// record schema. It is retriable: the orchestrator feeds it back to the model
// as a correction request.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// JSONSchema builds a draft 2020-12 schema document from Fields. It is used
// as the final gate after lenient coercion.
func JSONSchema() map[string]any {
	props := map[string]any{}
	for _, f := range Fields() {
		switch f.Kind {
		case KindString:
			props[f.Name] = map[string]any{"type": "string"}
		case KindStringList:
			props[f.Name] = map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			}
		}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

var (
	compiledOnce sync.Once
	compiled     *jsonschema.Schema
	compileErr   error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		raw, err := json.Marshal(JSONSchema())
		if err != nil {
			compileErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("record.json", strings.NewReader(string(raw))); err != nil {
			compileErr = err
			return
		}
		compiled, compileErr = c.Compile("record.json")
	})
	return compiled, compileErr
}

// ValidateAndFill coerces a parsed model response into a Record. Missing
// fields take their schema defaults rather than failing; scalars where lists
// are expected are wrapped; nested values are flattened to strings; unknown
// keys are dropped. Only uncoercible shapes produce a ValidationError.
func ValidateAndFill(data map[string]any) (*Record, error) {
	if data == nil {
		return nil, &ValidationError{Err: fmt.Errorf("parsed value is not an object")}
	}

	cleaned := map[string]any{}
	for _, f := range Fields() {
		v, ok := data[f.Name]
		switch f.Kind {
		case KindString:
			if !ok || v == nil {
				cleaned[f.Name] = ""
				continue
			}
			s, err := toString(v)
			if err != nil {
				return nil, &ValidationError{Field: f.Name, Err: err}
			}
			cleaned[f.Name] = s
		case KindStringList:
			if !ok || v == nil {
				cleaned[f.Name] = []any{}
				continue
			}
			items, err := toStringList(v)
			if err != nil {
				return nil, &ValidationError{Field: f.Name, Err: err}
			}
			cleaned[f.Name] = items
		}
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile record schema: %w", err)
	}
	// Round-trip through JSON so the validator sees canonical types.
	raw, err := json.Marshal(cleaned)
	if err != nil {
		return nil, &ValidationError{Err: err}
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ValidationError{Err: err}
	}
	if err := sch.Validate(doc); err != nil {
		return nil, &ValidationError{Err: err}
	}

	rec := NewRecord()
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, &ValidationError{Err: err}
	}
	for _, f := range []*[]string{&rec.Experience, &rec.Responsibilities, &rec.Skills, &rec.Certifications} {
		if *f == nil {
			*f = []string{}
		}
	}
	rec.Skills = dedupeFold(rec.Skills)
	return rec, nil
}

// toString flattens an arbitrary JSON value to a concise string. Objects keep
// common identifying keys when present, otherwise compact JSON.
func toString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), "."), nil
	case bool:
		return fmt.Sprintf("%t", t), nil
	case map[string]any:
		var parts []string
		for _, k := range []string{"title", "company", "employer", "name", "location"} {
			if s, ok := t[k].(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", "), nil
		}
		b, err := json.Marshal(t)
		if err != nil {
			return "", fmt.Errorf("unrepresentable object value: %w", err)
		}
		return string(b), nil
	case []any:
		items, err := toStringList(t)
		if err != nil {
			return "", err
		}
		return strings.Join(items, "; "), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

func toStringList(v any) ([]string, error) {
	var raw []any
	switch t := v.(type) {
	case []any:
		raw = t
	default:
		// A scalar where a list is expected wraps into a single-item list.
		raw = []any{t}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, err := toString(item)
		if err != nil {
			return nil, err
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
