// Package codec defines the visitor protocol that generated serializers and
// deserializers drive, together with the generic in-memory representation
// (Value) used as the reference implementation of that protocol.
//
// The protocol is format-agnostic: a wire format (JSON, a binary framing,
// etc.) implements Encoder and Decoder; generated code only ever talks to
// those interfaces. ValueEncoder and ValueDecoder implement the protocol
// over Value trees and are what the test suite round-trips through.
//
// Key pieces:
//   - Encoder / Decoder: the protocol primitives
//   - Value: ordered, kind-tagged generic representation
//   - DecodeStruct / DecodeTuple / DecodeEnum: the decode state machines
//     generated code delegates to
//   - MissingFieldError, UnknownFieldError, UnknownVariantError,
//     TypeMismatchError: decode-time failures, recoverable by the caller
package codec
