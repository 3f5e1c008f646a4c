package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/degoss/internal/goss"
)

// truthyPattern matches the accepted spellings of an enabled flag.
var truthyPattern = regexp.MustCompile(`(?i)^(true|yes|on)$`)

// Truthy reports whether v spells an enabled flag. Booleans are taken as-is;
// anything else is compared by its text.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return truthyPattern.MatchString(strings.TrimSpace(x))
	default:
		return truthyPattern.MatchString(fmt.Sprint(x))
	}
}

// Decode converts a raw argument mapping into a Config. Missing options keep
// their defaults. Decode does not check required options; see Validate.
func Decode(params map[string]any) (*Config, error) {
	cfg := Default()

	for key, raw := range params {
		if strings.HasPrefix(key, ansiblePrefix) {
			continue
		}

		if err := cfg.set(key, raw); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Merge returns base with every key of overrides laid on top.
func Merge(base, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overrides))
	maps.Copy(out, base)
	maps.Copy(out, overrides)
	return out
}

func (c *Config) set(key string, raw any) error {
	var err error

	switch key {
	case KeyBinDir:
		c.BinDir, err = asString(key, raw)
	case KeyVersion:
		c.Version, err = asString(key, raw)
		if err == nil && c.Version == "" {
			c.Version = DefaultVersion
		}
	case KeyLogFile:
		c.LogFile, err = asString(key, raw)
	case KeyVerbose:
		c.Verbose = Truthy(raw)
	case KeyPath:
		c.Path, err = asString(key, raw)
	case KeyCwd:
		c.Cwd, err = asString(key, raw)
		if err == nil && c.Cwd == "" {
			c.Cwd = DefaultCwd
		}
	case KeyFormat:
		var s string
		if s, err = asString(key, raw); err == nil {
			c.Format, err = goss.ParseFormat(s)
			if err != nil {
				err = &ValidationError{Field: key, Message: err.Error()}
			}
		}
	case KeyExecutable:
		c.Executable, err = asString(key, raw)
	case KeyEnvVars:
		c.EnvVars, err = asEnv(key, raw)
	case KeyChecksum:
		c.Checksum = Truthy(raw)
	case KeyGPGKeyring:
		c.GPGKeyring, err = asString(key, raw)
	case KeyTimeout:
		c.Timeout, err = asDuration(key, raw)
	case KeyClean:
		c.Clean = Truthy(raw)
	default:
		return &ValidationError{Field: key, Message: "unsupported option"}
	}

	return err
}

// asString accepts strings and numbers. Numbers from argument files arrive
// as json.Number holding their source text; other floats are rendered with
// goss.FormatFloat so 1.0 stays "1.0".
func asString(key string, raw any) (string, error) {
	switch x := raw.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return goss.FormatFloat(x, 64), nil
	default:
		return "", &ValidationError{Field: key, Message: fmt.Sprintf("expected a string, got %T", raw)}
	}
}

// asDuration accepts Go duration strings ("90s", "10m") or a number of
// seconds.
func asDuration(key string, raw any) (time.Duration, error) {
	s, err := asString(key, raw)
	if err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTimeout, nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, &ValidationError{Field: key, Message: "must be positive"}
		}
		return d, nil
	}

	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs <= 0 {
		return 0, &ValidationError{Field: key, Message: fmt.Sprintf("invalid duration %q", s)}
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// asEnv classifies every value of an env_vars mapping.
func asEnv(key string, raw any) (map[string]goss.EnvValue, error) {
	env := map[string]goss.EnvValue{}

	switch m := raw.(type) {
	case nil:
	case map[string]any:
		for k, v := range m {
			env[k] = goss.EnvValueOf(v)
		}
	case map[string]string:
		for k, v := range m {
			env[k] = goss.StringValue(v)
		}
	case map[any]any:
		for k, v := range m {
			env[fmt.Sprint(k)] = goss.EnvValueOf(v)
		}
	default:
		return nil, &ValidationError{Field: key, Message: fmt.Sprintf("expected a mapping, got %T", raw)}
	}

	for k := range env {
		if k == "" || strings.ContainsAny(k, "=\x00") {
			return nil, &ValidationError{Field: key, Message: fmt.Sprintf("invalid environment variable name %q", k)}
		}
	}

	return env, nil
}
