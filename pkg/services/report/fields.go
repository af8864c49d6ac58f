package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
)

// fieldRegistry is the closed vocabulary of record fields the engine
// understands. Filters and columns referencing anything else fail
// validation before any record is touched.
var fieldRegistry = map[string]domain.FieldType{
	"email":        domain.FieldTypeString,
	"username":     domain.FieldTypeString,
	"displayName":  domain.FieldTypeString,
	"tool":         domain.FieldTypeString,
	"role":         domain.FieldTypeString,
	"status":       domain.FieldTypeString,
	"department":   domain.FieldTypeString,
	"jobTitle":     domain.FieldTypeString,
	"managerEmail": domain.FieldTypeString,
	"employeeId":   domain.FieldTypeString,
	"userId":       domain.FieldTypeString,
	"action":       domain.FieldTypeString,
	"resource":     domain.FieldTypeString,
	"severity":     domain.FieldTypeString,
	"category":     domain.FieldTypeString,
	"outcome":      domain.FieldTypeString,
	"riskScore":    domain.FieldTypeNumber,
	"lastLogin":    domain.FieldTypeDate,
	"createdDate":  domain.FieldTypeDate,
	"timestamp":    domain.FieldTypeDate,
	"permissions":  domain.FieldTypeArray,
	"groups":       domain.FieldTypeArray,
	"mfaEnabled":   domain.FieldTypeBoolean,
}

// ResolveField returns the declared type of a registered field.
func ResolveField(name string) (domain.FieldType, error) {
	ft, ok := fieldRegistry[name]
	if !ok {
		return "", &ValidationError{Field: name, Message: "unknown field"}
	}
	return ft, nil
}

// RegisteredFields returns the field vocabulary, for API consumers
// that build filter/column pickers.
func RegisteredFields() map[string]domain.FieldType {
	out := make(map[string]domain.FieldType, len(fieldRegistry))
	for k, v := range fieldRegistry {
		out[k] = v
	}
	return out
}

// dateLayouts are the accepted textual date encodings, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// asNumber coerces a raw record value to float64. Strings are parsed;
// anything non-numeric reports false rather than zero.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// asTime coerces a raw record value to a normalized UTC instant.
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.UTC(), true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// asString renders a raw record value for string comparison.
func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	default:
		return "", false
	}
}

// asStrings coerces an array-typed value to its string elements.
func asStrings(v any) ([]string, bool) {
	switch arr := v.(type) {
	case []string:
		return arr, true
	case []any:
		out := make([]string, 0, len(arr))
		for _, el := range arr {
			out = append(out, fmt.Sprintf("%v", el))
		}
		return out, true
	default:
		return nil, false
	}
}

// asBool coerces a raw record value to a boolean.
func asBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, false
		}
		return parsed, true
	default:
		return false, false
	}
}
