package report

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
)

var validate = validator.New()

// ValidateDefinition checks a definition before any record processing:
// struct-level shape, field registry membership, operator payload
// shapes, aggregation/type compatibility and chart axis bindings.
// The first violation is returned as a *ValidationError.
func ValidateDefinition(def *domain.ReportDefinition) error {
	if err := validate.Struct(def); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return &ValidationError{
				Field:   errs[0].Field(),
				Message: fmt.Sprintf("failed %q constraint", errs[0].Tag()),
			}
		}
		return &ValidationError{Message: err.Error()}
	}

	for _, f := range def.Filters {
		if err := validateFilter(f); err != nil {
			return err
		}
	}
	for _, c := range def.Columns {
		if err := validateColumn(c); err != nil {
			return err
		}
	}
	for _, ch := range def.Charts {
		if err := validateChart(ch); err != nil {
			return err
		}
	}
	return nil
}

func validateFilter(f domain.ReportFilter) error {
	ft, err := ResolveField(f.Field)
	if err != nil {
		return err
	}

	switch f.Operator {
	case domain.OperatorEquals:
		if !literalMatchesType(f.Value, ft) {
			return typeMismatch(f.Field, ft, "equals value")
		}
	case domain.OperatorContains:
		if ft != domain.FieldTypeString && ft != domain.FieldTypeArray {
			return &ValidationError{Field: f.Field, Message: "contains requires a string or array field"}
		}
		if _, ok := asString(f.Value); !ok {
			return &ValidationError{Field: f.Field, Message: "contains value must be a string"}
		}
	case domain.OperatorGreaterThan, domain.OperatorLessThan:
		if ft != domain.FieldTypeNumber && ft != domain.FieldTypeDate {
			return &ValidationError{Field: f.Field, Message: fmt.Sprintf("%s requires a number or date field", f.Operator)}
		}
		if !literalMatchesType(f.Value, ft) {
			return typeMismatch(f.Field, ft, "comparison value")
		}
	case domain.OperatorBetween:
		if ft != domain.FieldTypeNumber && ft != domain.FieldTypeDate {
			return &ValidationError{Field: f.Field, Message: "between requires a number or date field"}
		}
		pair, ok := asList(f.Value)
		if !ok || len(pair) != 2 {
			return &ValidationError{Field: f.Field, Message: "between value must be a two-element [min, max] range"}
		}
		for _, bound := range pair {
			if !literalMatchesType(bound, ft) {
				return typeMismatch(f.Field, ft, "range bound")
			}
		}
	case domain.OperatorIn:
		if ft != domain.FieldTypeString && ft != domain.FieldTypeNumber {
			return &ValidationError{Field: f.Field, Message: "in requires a string or number field"}
		}
		list, ok := asList(f.Value)
		if !ok || len(list) == 0 {
			return &ValidationError{Field: f.Field, Message: "in value must be a non-empty list"}
		}
	default:
		return &ValidationError{Field: f.Field, Message: fmt.Sprintf("unsupported operator %q", f.Operator)}
	}
	return nil
}

func validateColumn(c domain.ReportColumn) error {
	ft, err := ResolveField(c.Key)
	if err != nil {
		return err
	}
	if c.Type != ft {
		return &ValidationError{Field: c.Key, Message: fmt.Sprintf("declared type %q does not match registered type %q", c.Type, ft)}
	}
	// count works on any type; the numeric aggregations do not.
	if c.Aggregation != "" && c.Aggregation != domain.AggregationCount && c.Type != domain.FieldTypeNumber {
		if c.Type != domain.FieldTypeDate || (c.Aggregation != domain.AggregationMin && c.Aggregation != domain.AggregationMax) {
			return &ValidationError{Field: c.Key, Message: fmt.Sprintf("aggregation %q requires a number column", c.Aggregation)}
		}
	}
	return nil
}

func validateChart(ch domain.ChartConfig) error {
	if ch.XAxis == "" {
		return &ValidationError{Field: "xAxis", Message: "chart is missing its x axis"}
	}
	if ch.YAxis == "" && ch.Type == domain.ChartScatter {
		return &ValidationError{Field: "yAxis", Message: "scatter chart requires a numeric y axis"}
	}
	return nil
}

// asList unwraps a filter payload expected to be a list.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	case []float64:
		out := make([]any, len(l))
		for i, f := range l {
			out[i] = f
		}
		return out, true
	default:
		return nil, false
	}
}

func literalMatchesType(v any, ft domain.FieldType) bool {
	switch ft {
	case domain.FieldTypeNumber:
		_, ok := asNumber(v)
		return ok
	case domain.FieldTypeDate:
		_, ok := asTime(v)
		return ok
	case domain.FieldTypeBoolean:
		_, ok := asBool(v)
		return ok
	default:
		_, ok := asString(v)
		return ok
	}
}

func typeMismatch(field string, ft domain.FieldType, what string) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("%s is not coercible to field type %q", what, ft)}
}
