// Package shape models a type definition abstracted into one of the five
// structural shapes the generators understand: unit, newtype, tuple,
// struct, and enum.
//
// Key types:
//   - TypeDefinition: name, generic parameters, shape, raw annotations
//   - Shape: kind-tagged node carrying fields or variants
//   - FieldSpec / VariantSpec: per-field and per-variant declarations
//
// The model is purely syntactic: it never inspects or evaluates values of
// the described type.
package shape
