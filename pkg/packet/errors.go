package packet

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when an analysis parameter is out of range
var ErrInvalidArgument = errors.New("invalid argument")

// SchemaError reports that a field required by an analysis is absent
// from the record set altogether
type SchemaError struct {
	Analysis string
	Field    Field
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: required column %q is missing", e.Analysis, e.Field)
}

// EmptyResultError reports that the required fields exist but no record
// carried usable data once malformed values were excluded
type EmptyResultError struct {
	Analysis string
	Reason   string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s: no usable data: %s", e.Analysis, e.Reason)
}

// IsSchemaError reports whether err is or wraps a *SchemaError
func IsSchemaError(err error) bool {
	var target *SchemaError
	return errors.As(err, &target)
}

// IsEmptyResult reports whether err is or wraps an *EmptyResultError
func IsEmptyResult(err error) bool {
	var target *EmptyResultError
	return errors.As(err, &target)
}
