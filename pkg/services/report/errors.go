package report

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed report definition. It is raised
// before any record processing starts and names the offending field so
// builders can surface a field-level message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SourceFetchError records the failure of a single upstream record
// source. It does not abort generation; it is surfaced as a warning on
// the produced result.
type SourceFetchError struct {
	Source string
	Err    error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("source %q fetch failed: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() error { return e.Err }

// GenerationError wraps any failure of the public generate contract:
// inactive definitions, validation failures, or a data provider that
// could not supply any records at all.
type GenerationError struct {
	ReportID string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate report %q: %v", e.ReportID, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IsValidation reports whether err stems from definition validation.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
