package goss

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

const (
	// DefaultTimeout bounds a single validator run.
	DefaultTimeout = 10 * time.Minute

	// waitDelay caps how long output pipes are drained after the child is
	// killed.
	waitDelay = 5 * time.Second
)

// Result is the outcome of one validator run.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Succeeded reports whether every goss test passed.
func (r *Result) Succeeded() bool {
	return r.ExitCode == 0
}

// Runner executes a built command.
type Runner interface {
	Run(ctx context.Context, cmd *Command) (*Result, error)
}

// ExecRunner runs the validator as a child process.
type ExecRunner struct {
	// Timeout bounds the run. Zero means DefaultTimeout, negative disables it.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Run blocks until the child exits. A non-zero exit code is reported in the
// Result with a nil error. Failing to start, dying from a signal, a timeout
// or cancellation return an error.
func (r *ExecRunner) Run(ctx context.Context, cmd *Command) (*Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// Create command with context for cancellation/timeout support
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	logger.Debug("running goss", "command", cmd.String(), "cwd", cmd.Dir)

	err := c.Run()

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, fmt.Errorf("goss did not finish within %s: %w", timeout, ctxErr)
		}
		return nil, fmt.Errorf("goss run cancelled: %w", ctxErr)
	}

	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("unable to run %s: %w", cmd.Path, err)
		}
		// -1 means the child did not exit on its own (killed by a signal)
		if exitErr.ExitCode() < 0 {
			return nil, fmt.Errorf("goss terminated abnormally: %s", exitErr.ProcessState)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	logger.Debug("goss finished", "rc", result.ExitCode)

	return result, nil
}
