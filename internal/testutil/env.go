// Package testutil provides utilities for testing degoss in isolation.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// Env is an isolated set of directories for one test.
type Env struct {
	Root    string // temp root, also HOME
	BinDir  string // install target for the validator
	WorkDir string // working directory holding test specs
}

// SetupTestEnv creates isolated test directories for each test.
// HOME points into the temp root so nothing touches the real user's files.
//
// The cleanup function is automatically handled by t.TempDir(),
// so callers don't need to manually clean up.
func SetupTestEnv(t *testing.T) *Env {
	t.Helper()

	tmpDir := t.TempDir()

	env := &Env{
		Root:    tmpDir,
		BinDir:  filepath.Join(tmpDir, "bin"),
		WorkDir: filepath.Join(tmpDir, "work"),
	}

	t.Setenv("HOME", tmpDir)

	for _, dir := range []string{env.BinDir, env.WorkDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return env
}

// SpecContent is a minimal goss test file.
const SpecContent = `file:
  /etc/hostname:
    exists: true
`

// WriteSpec writes a goss test file named name into dir and returns its path.
func WriteSpec(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(SpecContent), 0o644); err != nil {
		t.Fatalf("failed to write spec %s: %v", path, err)
	}
	return path
}

// ValidatorScript returns a shell script that stands in for goss. It prints
// its arguments and the DEGOSS_TEST variable to stdout, a fixed line to
// stderr, and exits with exitCode.
func ValidatorScript(exitCode int) string {
	return fmt.Sprintf(`#!/bin/sh
echo "args: $*"
echo "DEGOSS_TEST=${DEGOSS_TEST}"
echo "validator stderr" 1>&2
exit %d
`, exitCode)
}

// WriteValidator installs ValidatorScript(exitCode) as an executable named
// name in dir and returns its path.
func WriteValidator(t *testing.T, dir, name string, exitCode int) string {
	t.Helper()
	RequireShell(t)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(ValidatorScript(exitCode)), 0o755); err != nil {
		t.Fatalf("failed to write validator %s: %v", path, err)
	}
	return path
}

// RequireShell skips tests that execute /bin/sh scripts.
func RequireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("validator stubs require /bin/sh")
	}
}
