package goss

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExecutable is resolved through PATH when no executable is given.
const DefaultExecutable = "goss"

// Reasons reported by ValidationError.
const (
	ReasonUndefined   = "undefined"
	ReasonNotFound    = "not found"
	ReasonIsDirectory = "is a directory"
	ReasonNotReadable = "not readable"
)

// ValidationError reports a test specification path that cannot be used.
type ValidationError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Reason == ReasonUndefined {
		return "goss test file is undefined"
	}
	return fmt.Sprintf("goss test file %s %s", e.Path, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Invocation describes one goss validate run.
type Invocation struct {
	SpecPath   string
	WorkingDir string
	Format     Format
	Executable string
	Env        map[string]EnvValue
}

// Command is a fully resolved validator command line.
type Command struct {
	Path string   // executable
	Args []string // arguments, excluding Path
	Dir  string   // absolute working directory
	Env  []string // full child environment, KEY=value

	// Overrides holds just the sanitized overrides merged into Env.
	Overrides map[string]string
}

// String renders the command line for logging.
func (c *Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Build validates inv and constructs the command that runs it.
func Build(inv Invocation) (*Command, error) {
	workDir := inv.WorkingDir
	if workDir == "" {
		workDir = "."
	}
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	specPath, err := resolveSpecPath(inv.SpecPath, workDir)
	if err != nil {
		return nil, err
	}

	format := inv.Format
	if format == "" {
		format = DefaultFormat
	}
	if !format.Valid() {
		return nil, fmt.Errorf("unsupported output format %q", format)
	}

	executable := inv.Executable
	if executable == "" {
		executable = DefaultExecutable
	}

	overrides := SanitizeEnv(inv.Env)

	return &Command{
		Path:      executable,
		Args:      []string{"-g", specPath, "validate", "--format", format.String()},
		Dir:       workDir,
		Env:       environ(os.Environ(), overrides),
		Overrides: overrides,
	}, nil
}

// resolveSpecPath makes path absolute against workDir and checks that it is
// a readable regular file.
func resolveSpecPath(path, workDir string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", &ValidationError{Reason: ReasonUndefined}
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &ValidationError{Path: path, Reason: ReasonNotFound, Err: err}
		}
		return "", &ValidationError{Path: path, Reason: ReasonNotReadable, Err: err}
	}
	if info.IsDir() {
		return "", &ValidationError{Path: path, Reason: ReasonIsDirectory}
	}
	if !readable(path) {
		return "", &ValidationError{Path: path, Reason: ReasonNotReadable}
	}

	return path, nil
}
