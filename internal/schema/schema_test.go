package schema

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestValidateAndFillDefaults(t *testing.T) {
	rec, err := ValidateAndFill(map[string]any{"summary": "ok"})
	if err != nil {
		t.Fatalf("ValidateAndFill error: %v", err)
	}
	if rec.Summary != "ok" {
		t.Errorf("summary = %q, want %q", rec.Summary, "ok")
	}
	for name, list := range map[string][]string{
		"experience":       rec.Experience,
		"responsibilities": rec.Responsibilities,
		"skills":           rec.Skills,
		"certifications":   rec.Certifications,
	} {
		if list == nil {
			t.Errorf("%s is nil, want empty slice", name)
		}
		if len(list) != 0 {
			t.Errorf("%s = %v, want empty", name, list)
		}
	}
}

func TestValidateAndFillNil(t *testing.T) {
	_, err := ValidateAndFill(nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error %T, want *ValidationError", err)
	}
}

func TestValidateAndFillCoercion(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want func(*Record) bool
	}{
		{
			name: "scalar wraps into list",
			in:   map[string]any{"skills": "Go"},
			want: func(r *Record) bool { return reflect.DeepEqual(r.Skills, []string{"Go"}) },
		},
		{
			name: "numbers become strings",
			in:   map[string]any{"experience": []any{float64(5)}},
			want: func(r *Record) bool { return reflect.DeepEqual(r.Experience, []string{"5"}) },
		},
		{
			name: "object flattens to identifying keys",
			in: map[string]any{"experience": []any{
				map[string]any{"title": "Engineer", "company": "Acme", "years": float64(3)},
			}},
			want: func(r *Record) bool { return reflect.DeepEqual(r.Experience, []string{"Engineer, Acme"}) },
		},
		{
			name: "list summary joins",
			in:   map[string]any{"summary": []any{"part one", "part two"}},
			want: func(r *Record) bool { return r.Summary == "part one; part two" },
		},
		{
			name: "mixed list summary joins",
			in:   map[string]any{"summary": []any{"part one", float64(2), map[string]any{"title": "Engineer"}}},
			want: func(r *Record) bool { return r.Summary == "part one; 2; Engineer" },
		},
		{
			name: "unknown keys dropped",
			in:   map[string]any{"summary": "ok", "confidence": 0.93},
			want: func(r *Record) bool { return r.Summary == "ok" },
		},
		{
			name: "empty strings removed from lists",
			in:   map[string]any{"skills": []any{"Go", "", "  ", "SQL"}},
			want: func(r *Record) bool { return reflect.DeepEqual(r.Skills, []string{"Go", "SQL"}) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ValidateAndFill(tt.in)
			if err != nil {
				t.Fatalf("ValidateAndFill(%v) error: %v", tt.in, err)
			}
			if !tt.want(rec) {
				t.Errorf("unexpected record: %+v", rec)
			}
		})
	}
}

func TestSkillsDedupe(t *testing.T) {
	rec, err := ValidateAndFill(map[string]any{
		"skills": []any{"Python", "SQL", "python", "sql ", "Go"},
	})
	if err != nil {
		t.Fatalf("ValidateAndFill error: %v", err)
	}
	want := []string{"Python", "SQL", "Go"}
	if !reflect.DeepEqual(rec.Skills, want) {
		t.Errorf("skills = %v, want %v", rec.Skills, want)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	rec := &Record{
		Summary:          "Senior network engineer.",
		Experience:       []string{"Engineer, Acme (2019-2023)"},
		Responsibilities: []string{"designed networks", "led incident response"},
		Skills:           []string{"BGP", "OSPF"},
		Certifications:   []string{"CCNP"},
	}

	data, err := rec.JSON()
	if err != nil {
		t.Fatalf("JSON error: %v", err)
	}

	got, err := ParseRecord(data)
	if err != nil {
		t.Fatalf("ParseRecord error: %v", err)
	}
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, rec)
	}
}

func TestParseRecordDefaults(t *testing.T) {
	got, err := ParseRecord([]byte(`{"summary": "ok"}`))
	if err != nil {
		t.Fatalf("ParseRecord error: %v", err)
	}
	if got.Skills == nil || got.Experience == nil || got.Responsibilities == nil || got.Certifications == nil {
		t.Errorf("list fields not defaulted: %+v", got)
	}
}

func TestExampleJSONMatchesFields(t *testing.T) {
	example := ExampleJSON()
	obj := map[string]any{}
	for _, f := range Fields() {
		if f.Kind == KindString {
			obj[f.Name] = ""
		} else {
			obj[f.Name] = []any{}
		}
	}
	for _, f := range Fields() {
		if !strings.Contains(example, `"`+f.Name+`"`) {
			t.Errorf("example JSON missing field %q", f.Name)
		}
	}
	if _, err := ValidateAndFill(obj); err != nil {
		t.Errorf("empty-shape object should validate: %v", err)
	}
}
