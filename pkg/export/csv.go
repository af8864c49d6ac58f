package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
)

// arrayJoin separates array elements inside one CSV cell.
const arrayJoin = ";"

func encodeCSV(result *domain.ReportResult, columns []domain.ReportColumn) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = columnLabel(c)
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range result.Data {
		cells := make([]string, len(columns))
		for i, c := range columns {
			cells[i] = cellValue(row[c.Key])
		}
		if err := w.Write(cells); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func columnLabel(c domain.ReportColumn) string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}

// cellValue renders one cell. Array values are joined with semicolons;
// dates use ISO date-time form.
func cellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case []string:
		return strings.Join(val, arrayJoin)
	case []any:
		elems := make([]string, len(val))
		for i, el := range val {
			elems[i] = fmt.Sprintf("%v", el)
		}
		return strings.Join(elems, arrayJoin)
	case float64:
		// Trim the trailing zeros fmt would keep for whole numbers.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
