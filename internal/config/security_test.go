package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsSensitive(t *testing.T) {
	tests := map[string]bool{
		"DB_PASSWORD":      true,
		"github_token":     true,
		"AWS_SECRET_KEY":   true,
		"API_KEY":          true,
		"PRIVATE-KEY":      true,
		"BASIC_AUTH":       true,
		"ROLE":             false,
		"PORT":             false,
		"GOSS_USE_ALPHA":   false,
		"PATHS_TO_INCLUDE": false,
	}

	for name, want := range tests {
		if got := IsSensitive(name); got != want {
			t.Errorf("IsSensitive(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestRedactEnv(t *testing.T) {
	in := map[string]string{"ROLE": "web", "DB_PASSWORD": "hunter2"}
	got := RedactEnv(in)

	want := map[string]string{"ROLE": "web", "DB_PASSWORD": "[REDACTED]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RedactEnv() mismatch (-want +got):\n%s", diff)
	}
	if in["DB_PASSWORD"] != "hunter2" {
		t.Error("RedactEnv() modified its input")
	}
}
