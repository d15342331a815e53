// Package attr resolves raw annotations into the normalized configuration
// the generators consume.
//
// Precedence is strict: a field or variant level annotation overrides the
// type-level setting, which overrides the built-in default. Resolution
// also enforces the structural consistency rules: resolved names must be
// non-empty and unique among siblings, a field cannot be skipped on the
// serialize side while still required on the deserialize side, and
// internal/adjacent enum tagging is only compatible with struct and unit
// variants.
//
// The recognized-annotation schema is built lazily once per process and is
// read-only afterwards, so resolution is safe to run concurrently.
package attr
