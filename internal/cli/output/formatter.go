package output

import (
	"fmt"
	"io"
)

// Format selects the output rendering.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
	}
}

// Formatter renders data to a writer.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter creates a formatter for the given format.
func NewFormatter(format Format, wide bool) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{Wide: wide}
	}
}
