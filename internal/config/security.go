package config

import (
	"regexp"
)

// redacted replaces sensitive values in log output.
const redacted = "[REDACTED]"

// sensitiveNamePattern matches environment variable names that usually
// carry credentials.
var sensitiveNamePattern = regexp.MustCompile(`(?i)(pass(word|wd)?|pwd|token|secret|api[_-]?key|private[_-]?key|credential|auth)`)

// IsSensitive reports whether an environment variable name looks like it
// holds a credential.
func IsSensitive(name string) bool {
	return sensitiveNamePattern.MatchString(name)
}

// RedactEnv returns a copy of env safe for logging: values of sensitive
// names are replaced.
func RedactEnv(env map[string]string) map[string]string {
	out := make(map[string]string, len(env))
	for k, v := range env {
		if IsSensitive(k) {
			v = redacted
		}
		out[k] = v
	}
	return out
}
