package ingest

import (
	"fmt"
	"strings"
)

// Format is the declared type of an uploaded file.
type Format string

// Supported formats. TSV files are read with the tab-separated TXT rules.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatTXT  Format = "txt"
)

// FormatFromFilename selects a format from the lower-cased suffix after the
// last dot. Unknown or missing extensions are read as plain text.
func FormatFromFilename(name string) Format {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return FormatTXT
	}

	switch strings.ToLower(name[i+1:]) {
	case "csv":
		return FormatCSV
	case "json":
		return FormatJSON
	default:
		return FormatTXT
	}
}

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "txt", "tsv", "text":
		return FormatTXT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// String implements fmt.Stringer.
func (f Format) String() string {
	return string(f)
}
