package goss

import "fmt"

// Format is a goss output format.
type Format string

const (
	FormatRSpecish      Format = "rspecish"
	FormatDocumentation Format = "documentation"
	FormatJSON          Format = "json"
	FormatTAP           Format = "tap"
	FormatJUnit         Format = "junit"
	FormatNagios        Format = "nagios"
	FormatNagiosVerbose Format = "nagios_verbose"
	FormatSilent        Format = "silent"

	// DefaultFormat is used when no format is requested.
	DefaultFormat = FormatRSpecish
)

// Formats lists every supported output format in documentation order.
var Formats = []Format{
	FormatRSpecish,
	FormatDocumentation,
	FormatJSON,
	FormatTAP,
	FormatJUnit,
	FormatNagios,
	FormatNagiosVerbose,
	FormatSilent,
}

// ParseFormat validates s. An empty string yields DefaultFormat.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return DefaultFormat, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q", s)
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	_, err := ParseFormat(string(f))
	return err == nil && f != ""
}

func (f Format) String() string {
	return string(f)
}
