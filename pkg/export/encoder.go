// Package export serializes report results for file download: CSV for
// spreadsheets, JSON for the full structural dump, and a multi-sheet
// Excel workbook for the comprehensive access review.
package export

import (
	"fmt"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatExcel Format = "excel"
)

// ParseFormat validates a caller-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON, FormatExcel:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported export format: %q", s)
	}
}

// ContentType returns the MIME type served for downloads.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	if f == FormatExcel {
		return "xlsx"
	}
	return string(f)
}

// Encode serializes a result in the requested format. Columns carry
// the header labels and the documented output order.
func Encode(result *domain.ReportResult, columns []domain.ReportColumn, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return encodeCSV(result, columns)
	case FormatJSON:
		return encodeJSON(result)
	case FormatExcel:
		return encodeExcel(result, columns)
	default:
		return nil, fmt.Errorf("unsupported export format: %q", format)
	}
}
