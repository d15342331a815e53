package codec

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Decode-time failures. These occur when generated code runs against real
// data; they abort the current value's deserialization only and carry
// enough path context to locate the failure in nested structures.

// MissingFieldError reports a required field absent from the input.
type MissingFieldError struct {
	Field string
	Path  string
}

func (e *MissingFieldError) Error() string {
	return withPath(fmt.Sprintf("missing required field %q", e.Field), e.Path)
}

// UnknownFieldError reports an input key that matches no known field while
// the shape is configured to deny unknown fields.
type UnknownFieldError struct {
	Field string
	Path  string
}

func (e *UnknownFieldError) Error() string {
	return withPath(fmt.Sprintf("unknown field %q", e.Field), e.Path)
}

// UnknownVariantError reports an unrecognized enum tag. Valid lists the
// accepted tags in declaration order. An empty Tag means the input matched
// no variant of an untagged enum.
type UnknownVariantError struct {
	Tag   string
	Valid []string
	Path  string
}

func (e *UnknownVariantError) Error() string {
	valid := strings.Join(e.Valid, ", ")
	if e.Tag == "" {
		return withPath(fmt.Sprintf("data matched no variant, expected one of: %s", valid), e.Path)
	}

	return withPath(fmt.Sprintf("unknown variant %q, expected one of: %s", e.Tag, valid), e.Path)
}

// TypeMismatchError reports a shape/kind mismatch while decoding.
type TypeMismatchError struct {
	Expected string
	Found    string
	Path     string
}

func (e *TypeMismatchError) Error() string {
	return withPath(fmt.Sprintf("expected %s, found %s", e.Expected, e.Found), e.Path)
}

func withPath(msg, path string) string {
	if path == "" {
		return msg
	}

	return msg + " at " + path
}

func newMissingField(field, path string) error {
	return errors.WithStack(&MissingFieldError{Field: field, Path: path})
}

func newUnknownField(field, path string) error {
	return errors.WithStack(&UnknownFieldError{Field: field, Path: path})
}

func newUnknownVariant(tag string, valid []string, path string) error {
	return errors.WithStack(&UnknownVariantError{Tag: tag, Valid: valid, Path: path})
}

func newTypeMismatch(expected, found, path string) error {
	return errors.WithStack(&TypeMismatchError{Expected: expected, Found: found, Path: path})
}

// fieldPath renders "field `x` of Point" style context strings.
func fieldPath(container, field string) string {
	if container == "" {
		return fmt.Sprintf("field `%s`", field)
	}

	return fmt.Sprintf("field `%s` of %s", field, container)
}
