package parquetmeta

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the concrete error types through errors.Is.
var (
	ErrFormat = errors.New("parquet: invalid file format")
	ErrDecode = errors.New("parquet: malformed file metadata")
	ErrSchema = errors.New("parquet: invalid schema")
)

// FormatError is returned when the outer framing of the file (magic bytes,
// footer length) is invalid. The input is not a parquet file at all.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", ErrFormat, e.Reason)
}

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// DecodeError is returned when the thrift encoded footer is truncated or
// internally inconsistent. Field is the path of the field being decoded when
// the problem was found and Offset the position inside the footer.
type DecodeError struct {
	Field  string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s at footer offset %d: %v", ErrDecode, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s: field %s at footer offset %d: %v", ErrDecode, e.Field, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// SchemaError is returned when the decoded schema can not be turned into a
// valid tree, or does not match the column chunks of the row groups.
type SchemaError struct {
	Element string
	Reason  string
}

func (e *SchemaError) Error() string {
	if e.Element == "" {
		return fmt.Sprintf("%s: %s", ErrSchema, e.Reason)
	}
	return fmt.Sprintf("%s: element %q: %s", ErrSchema, e.Element, e.Reason)
}

// Is reports whether target is ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

func formatErrorf(format string, args ...interface{}) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

func schemaErrorf(element, format string, args ...interface{}) error {
	return &SchemaError{Element: element, Reason: fmt.Sprintf(format, args...)}
}
