package config

import (
	"fmt"
	"time"

	"github.com/ZebulonRouseFrantzich/degoss/internal/goss"
)

// Mode selects which options an entry point requires.
type Mode string

const (
	ModeInstall  Mode = "install"
	ModeValidate Mode = "validate"
	ModeRun      Mode = "run"
)

// Config holds every degoss option, fully typed.
type Config struct {
	// Installation
	BinDir     string
	Version    string
	Checksum   bool
	GPGKeyring string

	// Execution
	Path       string
	Cwd        string
	Format     goss.Format
	Executable string
	EnvVars    map[string]goss.EnvValue
	Timeout    time.Duration

	// Run removes the installed binary afterwards when Clean is set.
	Clean bool

	// Logging
	LogFile string
	Verbose bool
}

// Default returns a Config with every default applied.
func Default() *Config {
	return &Config{
		Version: DefaultVersion,
		Cwd:     DefaultCwd,
		Format:  goss.DefaultFormat,
		EnvVars: map[string]goss.EnvValue{},
		Timeout: DefaultTimeout,
		Clean:   true,
	}
}

// Validate checks that the options required by mode are present.
func (c *Config) Validate(mode Mode) error {
	switch mode {
	case ModeInstall, ModeValidate, ModeRun:
	default:
		return &ValidationError{Message: fmt.Sprintf("unknown mode %q", mode)}
	}

	if mode != ModeValidate && c.BinDir == "" {
		return &ValidationError{Field: KeyBinDir, Message: "is required"}
	}
	if mode != ModeInstall && c.Path == "" {
		return &ValidationError{Field: KeyPath, Message: "is required"}
	}
	if !c.Format.Valid() {
		return &ValidationError{Field: KeyFormat, Message: fmt.Sprintf("unsupported output format %q", c.Format)}
	}
	if c.Timeout <= 0 {
		return &ValidationError{Field: KeyTimeout, Message: "must be positive"}
	}

	return nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "invalid option " + e.Field + ": " + e.Message
	}
	return "invalid options: " + e.Message
}
