package goss

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// EnvKind tags the original type of an environment override.
type EnvKind int

const (
	EnvString EnvKind = iota
	EnvBool
	EnvNumber
	EnvOther
)

func (k EnvKind) String() string {
	switch k {
	case EnvString:
		return "string"
	case EnvBool:
		return "bool"
	case EnvNumber:
		return "number"
	case EnvOther:
		return "other"
	default:
		return "unknown"
	}
}

// EnvValue is an environment override as it came out of configuration,
// before it is flattened into a string for the child process.
type EnvValue struct {
	kind  EnvKind
	text  string // EnvString and EnvNumber
	flag  bool   // EnvBool
	other any    // EnvOther
}

// StringValue wraps a string override.
func StringValue(s string) EnvValue { return EnvValue{kind: EnvString, text: s} }

// BoolValue wraps a boolean override.
func BoolValue(b bool) EnvValue { return EnvValue{kind: EnvBool, flag: b} }

// NumberValue wraps a number already rendered as text ("5", "2.5").
func NumberValue(text string) EnvValue { return EnvValue{kind: EnvNumber, text: text} }

// OtherValue wraps any structured value (lists, mappings, null).
func OtherValue(v any) EnvValue { return EnvValue{kind: EnvOther, other: v} }

// EnvValueOf classifies a decoded configuration value.
func EnvValueOf(v any) EnvValue {
	switch x := v.(type) {
	case EnvValue:
		return x
	case string:
		return StringValue(x)
	case bool:
		return BoolValue(x)
	case json.Number:
		return NumberValue(x.String())
	case int:
		return NumberValue(strconv.Itoa(x))
	case int64:
		return NumberValue(strconv.FormatInt(x, 10))
	case uint64:
		return NumberValue(strconv.FormatUint(x, 10))
	case float64:
		return NumberValue(FormatFloat(x, 64))
	case float32:
		return NumberValue(FormatFloat(float64(x), 32))
	default:
		return OtherValue(v)
	}
}

// FormatFloat renders a float the way it is written in a configuration
// file. Decimals keep a trailing ".0" (1.0 stays "1.0"); magnitudes below
// 1e-4 or from 1e16 up use exponent form ("1.5e+300").
func FormatFloat(f float64, bitSize int) string {
	abs := math.Abs(f)
	if math.IsNaN(f) || math.IsInf(f, 0) || (abs != 0 && (abs < 1e-4 || abs >= 1e16)) {
		return strconv.FormatFloat(f, 'g', -1, bitSize)
	}

	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Kind returns the variant tag.
func (v EnvValue) Kind() EnvKind { return v.kind }

// Sanitize renders the value as an environment string.
//
// Booleans become "true" or "false". Strings and numbers keep their text.
// Anything else becomes JSON, or its fmt rendering when JSON fails.
func (v EnvValue) Sanitize() string {
	switch v.kind {
	case EnvBool:
		return strconv.FormatBool(v.flag)
	case EnvString, EnvNumber:
		return v.text
	default:
		data, err := json.Marshal(v.other)
		if err != nil {
			return fmt.Sprint(v.other)
		}
		return string(data)
	}
}

// SanitizeEnv flattens every override to a string. Feeding the result back
// through SanitizeEnv returns an identical map.
func SanitizeEnv(env map[string]EnvValue) map[string]string {
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = v.Sanitize()
	}
	return out
}

// StringEnv wraps plain strings as overrides.
func StringEnv(env map[string]string) map[string]EnvValue {
	out := make(map[string]EnvValue, len(env))
	for k, v := range env {
		out[k] = StringValue(v)
	}
	return out
}

// environ appends the sanitized overrides to base as KEY=value pairs,
// in sorted key order.
func environ(base []string, overrides map[string]string) []string {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(base)+len(keys))
	env = append(env, base...)
	for _, k := range keys {
		env = append(env, k+"="+overrides[k])
	}
	return env
}
