// Package diagnostic provides structured generation-time errors for the
// serde generator.
//
// Key capabilities:
//   - Typed failure codes for the generation-time taxonomy
//     (unsupported shape, invalid rename, inconsistent skip, ...)
//   - Type/field context so a failure points at the offending declaration
//   - A collector that keeps per-type failures independent: one bad type
//     never aborts generation for its siblings
package diagnostic
