// Package goss builds and runs goss validate invocations.
//
// Build checks the test specification path, flattens environment overrides
// into strings and produces the exact command line. A Runner executes that
// command and reports the exit code and captured streams. A non-zero exit
// is a test outcome, never a runner error.
package goss
