package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
)

// Project maps records onto the requested columns. Without any
// aggregation each output row is a 1:1 projection of one record. As
// soon as one column aggregates, the non-aggregated columns form a
// composite group key and each bucket collapses to a single row.
// Buckets appear in first-encounter order of their key.
func Project(records []domain.Record, columns []domain.ReportColumn) ([]domain.Row, error) {
	for _, c := range columns {
		if err := validateColumn(c); err != nil {
			return nil, err
		}
	}

	if !hasAggregation(columns) {
		rows := make([]domain.Row, 0, len(records))
		for _, rec := range records {
			row := make(domain.Row, len(columns))
			for _, c := range columns {
				row[c.Key] = rec[c.Key]
			}
			rows = append(rows, row)
		}
		return rows, nil
	}

	return aggregate(records, columns), nil
}

func hasAggregation(columns []domain.ReportColumn) bool {
	for _, c := range columns {
		if c.Aggregation != "" {
			return true
		}
	}
	return false
}

type bucket struct {
	key     string
	keyVals map[string]any
	records []domain.Record
}

func aggregate(records []domain.Record, columns []domain.ReportColumn) []domain.Row {
	var groupCols, aggCols []domain.ReportColumn
	for _, c := range columns {
		if c.Aggregation == "" {
			groupCols = append(groupCols, c)
		} else {
			aggCols = append(aggCols, c)
		}
	}

	index := make(map[string]*bucket)
	var order []*bucket
	for _, rec := range records {
		key := groupKey(rec, groupCols)
		b, ok := index[key]
		if !ok {
			keyVals := make(map[string]any, len(groupCols))
			for _, c := range groupCols {
				keyVals[c.Key] = rec[c.Key]
			}
			b = &bucket{key: key, keyVals: keyVals}
			index[key] = b
			order = append(order, b)
		}
		b.records = append(b.records, rec)
	}

	rows := make([]domain.Row, 0, len(order))
	for _, b := range order {
		row := make(domain.Row, len(columns))
		for _, c := range groupCols {
			row[c.Key] = b.keyVals[c.Key]
		}
		for _, c := range aggCols {
			row[c.Key] = collapse(b.records, c)
		}
		rows = append(rows, row)
	}
	return rows
}

// groupKey builds a structural key from the non-aggregated column
// values. The unit separator keeps adjacent values from colliding.
func groupKey(rec domain.Record, groupCols []domain.ReportColumn) string {
	parts := make([]string, len(groupCols))
	for i, c := range groupCols {
		parts[i] = keyPart(rec[c.Key], c.Type)
	}
	return strings.Join(parts, "\x1f")
}

// keyPart renders one key component from the coerced typed value.
// Values that fail coercion keep their dynamic type in the key, so a
// string "5" and a number 5 land in separate buckets.
func keyPart(v any, ft domain.FieldType) string {
	if v == nil {
		return ""
	}
	switch ft {
	case domain.FieldTypeNumber:
		if n, ok := asNumber(v); ok {
			return "n:" + strconv.FormatFloat(n, 'g', -1, 64)
		}
	case domain.FieldTypeDate:
		if t, ok := asTime(v); ok {
			return "d:" + strconv.FormatInt(t.UnixNano(), 10)
		}
	case domain.FieldTypeBoolean:
		if b, ok := asBool(v); ok {
			return "b:" + strconv.FormatBool(b)
		}
	case domain.FieldTypeArray:
		if elems, ok := asStrings(v); ok {
			return "a:" + strings.Join(elems, "\x1e")
		}
	default:
		if s, ok := asString(v); ok {
			return "s:" + s
		}
	}
	return fmt.Sprintf("%T:%v", v, v)
}

func collapse(records []domain.Record, col domain.ReportColumn) any {
	switch col.Aggregation {
	case domain.AggregationCount:
		return len(records)
	case domain.AggregationSum:
		sum, _ := sumColumn(records, col.Key)
		return sum
	case domain.AggregationAverage:
		sum, n := sumColumn(records, col.Key)
		if n == 0 {
			return nil
		}
		return sum / float64(n)
	case domain.AggregationMin:
		return extremum(records, col, false)
	case domain.AggregationMax:
		return extremum(records, col, true)
	default:
		return nil
	}
}

// sumColumn totals the coercible numeric values of a column. Missing
// and non-numeric values are excluded from both the sum and the count,
// so averages never treat them as zero.
func sumColumn(records []domain.Record, key string) (float64, int) {
	var sum float64
	var n int
	for _, rec := range records {
		if !rec.Has(key) {
			continue
		}
		if v, ok := asNumber(rec[key]); ok {
			sum += v
			n++
		}
	}
	return sum, n
}

// extremum finds min or max over coercible numeric or date values.
// A bucket with no coercible value yields nil.
func extremum(records []domain.Record, col domain.ReportColumn, max bool) any {
	if col.Type == domain.FieldTypeDate {
		var best time.Time
		found := false
		for _, rec := range records {
			if !rec.Has(col.Key) {
				continue
			}
			t, ok := asTime(rec[col.Key])
			if !ok {
				continue
			}
			if !found || (max && t.After(best)) || (!max && t.Before(best)) {
				best = t
				found = true
			}
		}
		if !found {
			return nil
		}
		return best
	}

	var best float64
	found := false
	for _, rec := range records {
		if !rec.Has(col.Key) {
			continue
		}
		v, ok := asNumber(rec[col.Key])
		if !ok {
			continue
		}
		if !found || (max && v > best) || (!max && v < best) {
			best = v
			found = true
		}
	}
	if !found {
		return nil
	}
	return best
}
