package codec

// Encoder is the encode side of the visitor protocol. Implementations build
// a serialized representation incrementally as generated code pushes
// sequence elements, map entries, and primitives.
//
// Values handed to EncodeElement, EncodeEntry, and EncodePrimitive may be:
//   - nil (the unit marker)
//   - bool, string, any Go integer or float type
//   - a Value
//   - an Encodable, which the implementation recurses into
//
// Anything else is rejected with a TypeMismatchError.
type Encoder interface {
	BeginSequence(lenHint int) error
	EncodeElement(v any) error
	EndSequence() error

	BeginMap(lenHint int) error
	EncodeEntry(key string, v any) error
	EndMap() error

	EncodePrimitive(v any) error
}

// Decoder is the decode side of the visitor protocol. VisitPrimitive
// returns one of nil, bool, int64, uint64, float64, or string.
type Decoder interface {
	VisitSequence() (SeqIter, error)
	VisitMap() (MapIter, error)
	VisitPrimitive() (any, error)
}

// SeqIter iterates sequence elements, each exposed as its own Decoder.
type SeqIter interface {
	Next() (Decoder, bool)
}

// MapIter iterates map entries in representation order.
type MapIter interface {
	Next() (key string, d Decoder, ok bool)
}

// Encodable is implemented by types with a generated (or hand-written)
// serializer.
type Encodable interface {
	EncodeSerde(e Encoder) error
}

// Decodable is implemented on pointer receivers by types with a generated
// (or hand-written) deserializer.
type Decodable interface {
	DecodeSerde(d Decoder) error
}
