// Package bound infers the generic constraints a generated artifact
// needs from the fields it actually touches.
//
// A type parameter that occurs anywhere in a participating field's type
// expression gets the codec constraint for the requested direction; a
// parameter only used by skipped fields keeps its declared bound. The
// inference deliberately over-constrains: occurrence is judged by
// identifier match, so a parameter buried in map[string]T is constrained
// even when the generated code only walks the map values. Explicit bound
// overrides replace or suppress the inferred constraint per parameter.
package bound
