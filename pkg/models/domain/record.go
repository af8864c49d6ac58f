package domain

// FieldType is the declared semantic type of a record field.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeDate    FieldType = "date"
	FieldTypeArray   FieldType = "array"
	FieldTypeBoolean FieldType = "boolean"
)

// Record is a single governance record: a loose map from a registered
// field name to a value of the field's declared type. Records originate
// from heterogeneous sources (synced tool users, audit events, policy
// violations) and are never assumed to have every field populated.
type Record map[string]any

// Has reports whether the record carries a non-nil value for the field.
func (r Record) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}
