package goss

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnvValueOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind EnvKind
		want string
	}{
		{name: "true", in: true, kind: EnvBool, want: "true"},
		{name: "false", in: false, kind: EnvBool, want: "false"},
		{name: "int", in: 5, kind: EnvNumber, want: "5"},
		{name: "int64", in: int64(-12), kind: EnvNumber, want: "-12"},
		{name: "float", in: 2.5, kind: EnvNumber, want: "2.5"},
		{name: "float_whole", in: 1.0, kind: EnvNumber, want: "1.0"},
		{name: "float_huge", in: 1.5e300, kind: EnvNumber, want: "1.5e+300"},
		{name: "float_tiny", in: 1e-7, kind: EnvNumber, want: "1e-07"},
		{name: "json_number", in: json.Number("1e3"), kind: EnvNumber, want: "1e3"},
		{name: "string", in: "hello world", kind: EnvString, want: "hello world"},
		{name: "string_true", in: "True", kind: EnvString, want: "True"},
		{name: "list", in: []any{1, "a", true}, kind: EnvOther, want: `[1,"a",true]`},
		{name: "mapping", in: map[string]any{"b": []any{1, 2}, "a": map[string]any{"x": nil}}, kind: EnvOther, want: `{"a":{"x":null},"b":[1,2]}`},
		{name: "null", in: nil, kind: EnvOther, want: "null"},
		{name: "json_fails", in: func() {}, kind: EnvOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := EnvValueOf(tt.in)
			if v.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", v.Kind(), tt.kind)
			}
			got := v.Sanitize()
			if tt.name == "json_fails" {
				if got == "" {
					t.Error("Sanitize() fell back to empty string")
				}
				return
			}
			if got != tt.want {
				t.Errorf("Sanitize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeNestedIsValidJSON(t *testing.T) {
	v := OtherValue(map[string]any{"servers": []any{map[string]any{"port": 80}}})

	var decoded any
	if err := json.Unmarshal([]byte(v.Sanitize()), &decoded); err != nil {
		t.Fatalf("Sanitize() produced invalid JSON %q: %v", v.Sanitize(), err)
	}
}

func TestSanitizeEnvIdempotent(t *testing.T) {
	env := map[string]EnvValue{
		"FLAG":   BoolValue(true),
		"OFF":    BoolValue(false),
		"COUNT":  EnvValueOf(5),
		"RATIO":  EnvValueOf(0.25),
		"NAME":   StringValue("web"),
		"NESTED": OtherValue(map[string]any{"a": []any{1, "two"}}),
	}

	first := SanitizeEnv(env)
	want := map[string]string{
		"FLAG":   "true",
		"OFF":    "false",
		"COUNT":  "5",
		"RATIO":  "0.25",
		"NAME":   "web",
		"NESTED": `{"a":[1,"two"]}`,
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("SanitizeEnv() mismatch (-want +got):\n%s", diff)
	}

	second := SanitizeEnv(StringEnv(first))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("re-sanitizing changed the map (-first +second):\n%s", diff)
	}
}

func TestEnviron(t *testing.T) {
	got := environ([]string{"PATH=/bin"}, map[string]string{"B": "2", "A": "1"})
	want := []string{"PATH=/bin", "A=1", "B=2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("environ() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{-3, "-3.0"},
		{2.5, "2.5"},
		{1234567, "1234567.0"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1e16, "1e+16"},
		{1.5e300, "1.5e+300"},
		{math.Inf(1), "+Inf"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		if got := FormatFloat(tt.in, 64); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
