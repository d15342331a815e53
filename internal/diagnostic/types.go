package diagnostic

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code identifies a class of generation-time failure. All are fatal to
// generating the one offending type; sibling types are unaffected.
type Code string

const (
	CodeUnsupportedShape           Code = "unsupported_shape"
	CodeInvalidRename              Code = "invalid_rename"
	CodeInconsistentSkip           Code = "inconsistent_skip"
	CodeIncompatibleRepresentation Code = "incompatible_representation"
	CodeBoundOverrideConflict      Code = "bound_override_conflict"
	CodeUnknownAnnotation          Code = "unknown_annotation"
	CodeInternal                   Code = "internal"
)

// Diagnostic is a single generation-time failure with enough context to
// locate the offending declaration.
type Diagnostic struct {
	Code      Code
	Message   string
	TypeName  string
	FieldPath string
	// Pos is the source location of the type definition, when known.
	Pos string
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	var prefix []string
	if d.TypeName != "" {
		prefix = append(prefix, "["+d.TypeName+"]")
	}

	if d.FieldPath != "" {
		prefix = append(prefix, d.FieldPath)
	}

	msg := fmt.Sprintf("[%s] %s", d.Code, d.Message)
	if len(prefix) > 0 {
		msg = strings.Join(prefix, " ") + ": " + msg
	}

	if d.Pos != "" {
		msg += " (" + d.Pos + ")"
	}

	return msg
}

// New builds a Diagnostic error with a stack trace attached.
func New(code Code, typeName, fieldPath, format string, args ...any) error {
	return errors.WithStack(&Diagnostic{
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
		TypeName:  typeName,
		FieldPath: fieldPath,
	})
}

// WithPos attaches a source position to a Diagnostic error, if it is one.
func WithPos(err error, pos string) error {
	var d *Diagnostic
	if errors.As(err, &d) {
		d.Pos = pos
	}

	return err
}

// CodeOf extracts the failure code, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d.Code
	}

	return CodeInternal
}

// Diagnostics collects per-type failures across a multi-type run.
type Diagnostics struct {
	Errors []*Diagnostic
}

// Add records a failure, coercing foreign errors into internal
// diagnostics so nothing is silently dropped.
func (ds *Diagnostics) Add(typeName string, err error) {
	if err == nil {
		return
	}

	var d *Diagnostic
	if errors.As(err, &d) {
		if d.TypeName == "" {
			d.TypeName = typeName
		}

		ds.Errors = append(ds.Errors, d)

		return
	}

	ds.Errors = append(ds.Errors, &Diagnostic{
		Code:     CodeInternal,
		Message:  err.Error(),
		TypeName: typeName,
	})
}

// HasErrors reports whether any failure was recorded.
func (ds *Diagnostics) HasErrors() bool {
	return len(ds.Errors) > 0
}

// Error returns a combined error, or nil when clean.
func (ds *Diagnostics) Error() error {
	if !ds.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(ds.Errors))
	for _, d := range ds.Errors {
		parts = append(parts, d.Error())
	}

	return errors.New(strings.Join(parts, "; "))
}
