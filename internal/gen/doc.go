// Package gen renders serializer and deserializer artifacts for resolved
// type definitions.
//
// Generation approach uses text/template + go/format for readable,
// allocation-light Go code. Encoders walk the visitor protocol directly;
// decoders build codec field tables and delegate to the runtime state
// machines, so ordering, defaults, and unknown-key policy live in one
// place instead of being re-expanded into every artifact.
//
// Output is deterministic: fields and variants are emitted in declaration
// order and imports are sorted.
package gen
