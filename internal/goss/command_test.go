package goss

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ZebulonRouseFrantzich/degoss/internal/testutil"
)

func TestBuild(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	spec := testutil.WriteSpec(t, env.WorkDir, "goss.yml")

	cmd, err := Build(Invocation{
		SpecPath:   "goss.yml",
		WorkingDir: env.WorkDir,
		Format:     FormatJSON,
		Executable: "/opt/goss",
		Env:        map[string]EnvValue{"DEGOSS_TEST": BoolValue(true)},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if cmd.Path != "/opt/goss" {
		t.Errorf("Path = %q", cmd.Path)
	}
	wantArgs := []string{"-g", spec, "validate", "--format", "json"}
	if diff := cmp.Diff(wantArgs, cmd.Args); diff != "" {
		t.Errorf("Args mismatch (-want +got):\n%s", diff)
	}
	if cmd.Dir != env.WorkDir {
		t.Errorf("Dir = %q, want %q", cmd.Dir, env.WorkDir)
	}
	if cmd.Env[len(cmd.Env)-1] != "DEGOSS_TEST=true" {
		t.Errorf("override not appended last: %v", cmd.Env[len(cmd.Env)-1])
	}
	if got := cmd.String(); got != "/opt/goss -g "+spec+" validate --format json" {
		t.Errorf("String() = %q", got)
	}
}

func TestBuildDefaults(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	spec := testutil.WriteSpec(t, env.WorkDir, "goss.yml")
	t.Chdir(env.WorkDir)

	cmd, err := Build(Invocation{SpecPath: spec})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantArgs := []string{"-g", spec, "validate", "--format", "rspecish"}
	if diff := cmp.Diff(wantArgs, cmd.Args); diff != "" {
		t.Errorf("Args mismatch (-want +got):\n%s", diff)
	}
	if cmd.Path != DefaultExecutable {
		t.Errorf("Path = %q, want %q", cmd.Path, DefaultExecutable)
	}
	if cmd.Dir != env.WorkDir {
		t.Errorf("Dir = %q, want %q", cmd.Dir, env.WorkDir)
	}
	if diff := cmp.Diff(map[string]string{}, cmd.Overrides, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Overrides mismatch:\n%s", diff)
	}
}

func TestBuildSpecValidation(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	if err := os.Mkdir(filepath.Join(env.WorkDir, "specs"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		path   string
		reason string
	}{
		{name: "undefined", path: "", reason: ReasonUndefined},
		{name: "blank", path: "  ", reason: ReasonUndefined},
		{name: "missing", path: "missing.yml", reason: ReasonNotFound},
		{name: "directory", path: "specs", reason: ReasonIsDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(Invocation{SpecPath: tt.path, WorkingDir: env.WorkDir})

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Build() error = %v, want *ValidationError", err)
			}
			if vErr.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", vErr.Reason, tt.reason)
			}
		})
	}
}

func TestBuildSpecNotReadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}

	env := testutil.SetupTestEnv(t)
	spec := testutil.WriteSpec(t, env.WorkDir, "secret.yml")
	if err := os.Chmod(spec, 0o200); err != nil {
		t.Fatal(err)
	}

	_, err := Build(Invocation{SpecPath: spec, WorkingDir: env.WorkDir})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Build() error = %v, want *ValidationError", err)
	}
	if vErr.Reason != ReasonNotReadable {
		t.Errorf("Reason = %q, want %q", vErr.Reason, ReasonNotReadable)
	}
}

func TestBuildRejectsFormat(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	testutil.WriteSpec(t, env.WorkDir, "goss.yml")

	_, err := Build(Invocation{SpecPath: "goss.yml", WorkingDir: env.WorkDir, Format: "xml"})
	if err == nil {
		t.Fatal("Build() accepted unsupported format")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	tests := []struct {
		err  *ValidationError
		want string
	}{
		{&ValidationError{Reason: ReasonUndefined}, "goss test file is undefined"},
		{&ValidationError{Path: "/x/goss.yml", Reason: ReasonNotFound}, "goss test file /x/goss.yml not found"},
		{&ValidationError{Path: "/x", Reason: ReasonIsDirectory}, "goss test file /x is a directory"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
