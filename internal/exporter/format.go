package exporter

import (
	"fmt"
	"strings"
	"time"

	apperrors "churnlens/internal/errors"
)

// Format names a supported export target.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// Formats lists the supported export formats in display order.
func Formats() []Format {
	return []Format{FormatCSV, FormatXLSX, FormatJSON}
}

// ParseFormat normalizes a raw format string. Unsupported values return an
// error wrapping ErrUnsupportedFormat so the HTTP boundary can map it to a
// 400 problem document.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, raw)
	}
}

// ContentType returns the MIME type for download responses.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// String returns the wire name of the format.
func (f Format) String() string {
	return string(f)
}

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// churnLabel renders the churn flag in the vocabulary the loader accepts,
// so an exported file loads back with identical labels.
func churnLabel(churned bool) string {
	if churned {
		return "churned"
	}
	return "active"
}

// formatDate renders an optional date cell; zero times export as empty.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
