package codec

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// Field describes one named field in a struct decode table. Generated
// deserializers build the table in declaration order; fields marked
// skip-deserializing never appear in it.
type Field struct {
	// Name is the resolved serialized name.
	Name string

	// Required makes absence a MissingFieldError. A field is required when
	// it has no default and is not skipped.
	Required bool

	// Default, when non-nil, is applied for an absent field. A field with a
	// capability-derived default (the zero value) leaves Default nil and
	// Required false: the destination already holds the zero value.
	Default func()

	// Decode consumes the field's value into the destination.
	Decode func(d Decoder) error
}

// StructSpec drives the named-field decode state machine.
type StructSpec struct {
	// Name of the containing type or variant, used for error context.
	Name string

	// DenyUnknown makes unmatched input keys an UnknownFieldError instead
	// of being discarded.
	DenyUnknown bool

	Fields []Field
}

// DecodeStruct runs the Collecting→Complete state machine of spec'd struct
// deserialization: fields arrive in arbitrary order, later values for the
// same field overwrite earlier ones, defaults fill absent fields, and every
// required field must be seen by end of input.
func DecodeStruct(d Decoder, spec StructSpec) error {
	it, err := d.VisitMap()
	if err != nil {
		return errors.Wrapf(err, "decoding %s", spec.Name)
	}

	index := make(map[string]int, len(spec.Fields))
	for i, f := range spec.Fields {
		index[f.Name] = i
	}

	seen := make([]bool, len(spec.Fields))

	for {
		key, fd, ok := it.Next()
		if !ok {
			break
		}

		i, known := index[key]
		if !known {
			if spec.DenyUnknown {
				return newUnknownField(key, spec.Name)
			}

			continue
		}

		if err := spec.Fields[i].Decode(fd); err != nil {
			return errors.Wrapf(err, "%s", fieldPath(spec.Name, key))
		}

		seen[i] = true
	}

	for i, f := range spec.Fields {
		if seen[i] {
			continue
		}

		if f.Default != nil {
			f.Default()
			continue
		}

		if f.Required {
			return newMissingField(f.Name, spec.Name)
		}
	}

	return nil
}

// DecodeUnit decodes the unit marker. Any payload other than null is a
// TypeMismatchError.
func DecodeUnit(d Decoder, name string) error {
	prim, err := d.VisitPrimitive()
	if err != nil {
		return errors.Wrapf(err, "decoding %s", name)
	}

	if prim != nil {
		return newTypeMismatch("null", primName(prim), name)
	}

	return nil
}

// DecodeTuple decodes a strictly positional shape. Fewer elements than
// expected fail with MissingFieldError naming the position; extra trailing
// elements are ignored.
func DecodeTuple(d Decoder, name string, elems []func(d Decoder) error) error {
	it, err := d.VisitSequence()
	if err != nil {
		return errors.Wrapf(err, "decoding %s", name)
	}

	for i, decode := range elems {
		ed, ok := it.Next()
		if !ok {
			return newMissingField(strconv.Itoa(i), name)
		}

		if err := decode(ed); err != nil {
			return errors.Wrapf(err, "%s", fieldPath(name, strconv.Itoa(i)))
		}
	}

	return nil
}
