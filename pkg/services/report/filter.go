package report

import (
	"strings"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
)

// Evaluate applies a conjunction of filters to a record stream,
// preserving input order. An empty filter list passes every record.
// A record missing the filtered field never matches. Filter payload
// shapes are assumed valid; callers run ValidateDefinition first.
func Evaluate(records []domain.Record, filters []domain.ReportFilter) ([]domain.Record, error) {
	for _, f := range filters {
		if err := validateFilter(f); err != nil {
			return nil, err
		}
	}

	if len(filters) == 0 {
		return records, nil
	}

	out := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if matchesAll(rec, filters) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func matchesAll(rec domain.Record, filters []domain.ReportFilter) bool {
	for _, f := range filters {
		if !matches(rec, f) {
			return false
		}
	}
	return true
}

func matches(rec domain.Record, f domain.ReportFilter) bool {
	if !rec.Has(f.Field) {
		return false
	}
	ft, err := ResolveField(f.Field)
	if err != nil {
		return false
	}
	value := rec[f.Field]

	switch f.Operator {
	case domain.OperatorEquals:
		return matchEquals(value, f.Value, ft)
	case domain.OperatorContains:
		return matchContains(value, f.Value, ft)
	case domain.OperatorGreaterThan:
		cmp, ok := compare(value, f.Value, ft)
		return ok && cmp > 0
	case domain.OperatorLessThan:
		cmp, ok := compare(value, f.Value, ft)
		return ok && cmp < 0
	case domain.OperatorBetween:
		return matchBetween(value, f.Value, ft)
	case domain.OperatorIn:
		return matchIn(value, f.Value, ft)
	default:
		return false
	}
}

func matchEquals(got, want any, ft domain.FieldType) bool {
	switch ft {
	case domain.FieldTypeNumber:
		g, ok1 := asNumber(got)
		w, ok2 := asNumber(want)
		return ok1 && ok2 && g == w
	case domain.FieldTypeDate:
		g, ok1 := asTime(got)
		w, ok2 := asTime(want)
		return ok1 && ok2 && g.Equal(w)
	case domain.FieldTypeBoolean:
		g, ok1 := asBool(got)
		w, ok2 := asBool(want)
		return ok1 && ok2 && g == w
	case domain.FieldTypeArray:
		elems, ok1 := asStrings(got)
		w, ok2 := asString(want)
		if !ok1 || !ok2 {
			return false
		}
		for _, el := range elems {
			if el == w {
				return true
			}
		}
		return false
	default:
		g, ok1 := asString(got)
		w, ok2 := asString(want)
		return ok1 && ok2 && g == w
	}
}

func matchContains(got, want any, ft domain.FieldType) bool {
	needle, ok := asString(want)
	if !ok {
		return false
	}
	needle = strings.ToLower(needle)

	if ft == domain.FieldTypeArray {
		elems, ok := asStrings(got)
		if !ok {
			return false
		}
		for _, el := range elems {
			if strings.Contains(strings.ToLower(el), needle) {
				return true
			}
		}
		return false
	}

	haystack, ok := asString(got)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), needle)
}

// compare returns -1/0/1 for got relative to want on number or date
// fields, and false when either side is not coercible.
func compare(got, want any, ft domain.FieldType) (int, bool) {
	if ft == domain.FieldTypeDate {
		g, ok1 := asTime(got)
		w, ok2 := asTime(want)
		if !ok1 || !ok2 {
			return 0, false
		}
		switch {
		case g.Before(w):
			return -1, true
		case g.After(w):
			return 1, true
		default:
			return 0, true
		}
	}

	g, ok1 := asNumber(got)
	w, ok2 := asNumber(want)
	if !ok1 || !ok2 {
		return 0, false
	}
	switch {
	case g < w:
		return -1, true
	case g > w:
		return 1, true
	default:
		return 0, true
	}
}

// matchBetween checks an inclusive [min, max] range.
func matchBetween(got, bounds any, ft domain.FieldType) bool {
	pair, ok := asList(bounds)
	if !ok || len(pair) != 2 {
		return false
	}
	lo, ok1 := compare(got, pair[0], ft)
	hi, ok2 := compare(got, pair[1], ft)
	return ok1 && ok2 && lo >= 0 && hi <= 0
}

func matchIn(got, allowed any, ft domain.FieldType) bool {
	list, ok := asList(allowed)
	if !ok {
		return false
	}

	if ft == domain.FieldTypeNumber {
		g, ok := asNumber(got)
		if !ok {
			return false
		}
		for _, candidate := range list {
			if c, ok := asNumber(candidate); ok && c == g {
				return true
			}
		}
		return false
	}

	// Strings compare case-insensitively for membership.
	g, ok := asString(got)
	if !ok {
		return false
	}
	g = strings.ToLower(g)
	for _, candidate := range list {
		if c, ok := asString(candidate); ok && strings.ToLower(c) == g {
			return true
		}
	}
	return false
}
