package codec

import (
	"strconv"
	"strings"
)

// Kind classifies a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindSeq
	KindMap

	// KindTotal is the number of kinds defined.
	KindTotal = int(iota)
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSeq:
		return "sequence"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is the generic serialized representation: a kind-tagged tree.
// Map entries are ordered; serializing a struct preserves declaration
// order and tests rely on that.
type Value struct {
	kind Kind

	b bool
	i int64
	u uint64
	f float64
	s string

	seq     []Value
	entries []Entry
}

// Entry is a single ordered map entry.
type Entry struct {
	Key string
	Val Value
}

// Null returns the unit/absent marker.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps a signed integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Uint wraps an unsigned integer.
func Uint(u uint64) Value { return Value{kind: KindUint, u: u} }

// Float wraps a floating point number.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Str wraps a string.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// Seq wraps an ordered sequence of values.
func Seq(elems ...Value) Value { return Value{kind: KindSeq, seq: elems} }

// MapOf wraps an ordered list of entries.
func MapOf(entries ...Entry) Value { return Value{kind: KindMap, entries: entries} }

// E is shorthand for constructing an Entry.
func E(key string, val Value) Entry { return Entry{Key: key, Val: val} }

// Kind reports the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is the unit marker.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Primitive returns the Go representation of a primitive value: nil, bool,
// int64, uint64, float64, or string.
func (v Value) Primitive() (any, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.b, nil
	case KindInt:
		return v.i, nil
	case KindUint:
		return v.u, nil
	case KindFloat:
		return v.f, nil
	case KindString:
		return v.s, nil
	default:
		return nil, newTypeMismatch("primitive", v.kind.String(), "")
	}
}

// Elems returns the sequence elements.
func (v Value) Elems() ([]Value, error) {
	if v.kind != KindSeq {
		return nil, newTypeMismatch("sequence", v.kind.String(), "")
	}

	return v.seq, nil
}

// Entries returns the ordered map entries.
func (v Value) Entries() ([]Entry, error) {
	if v.kind != KindMap {
		return nil, newTypeMismatch("map", v.kind.String(), "")
	}

	return v.entries, nil
}

// Lookup returns the last entry with the given key, honoring
// last-write-wins for duplicate keys.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}

	for i := len(v.entries) - 1; i >= 0; i-- {
		if v.entries[i].Key == key {
			return v.entries[i].Val, true
		}
	}

	return Value{}, false
}

// Equal reports deep, order-sensitive equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindUint:
		return v.u == other.u
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindSeq:
		if len(v.seq) != len(other.seq) {
			return false
		}

		for i := range v.seq {
			if !v.seq[i].Equal(other.seq[i]) {
				return false
			}
		}

		return true
	case KindMap:
		if len(v.entries) != len(other.entries) {
			return false
		}

		for i := range v.entries {
			if v.entries[i].Key != other.entries[i].Key {
				return false
			}

			if !v.entries[i].Val.Equal(other.entries[i].Val) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// String renders the value in a compact JSON-ish form for diagnostics.
func (v Value) String() string {
	var sb strings.Builder

	v.write(&sb)

	return sb.String()
}

func (v Value) write(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindUint:
		sb.WriteString(strconv.FormatUint(v.u, 10))
	case KindFloat:
		sb.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindString:
		sb.WriteString(strconv.Quote(v.s))
	case KindSeq:
		sb.WriteByte('[')

		for i, e := range v.seq {
			if i > 0 {
				sb.WriteString(", ")
			}

			e.write(sb)
		}

		sb.WriteByte(']')
	case KindMap:
		sb.WriteByte('{')

		for i, e := range v.entries {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(strconv.Quote(e.Key))
			sb.WriteString(": ")
			e.Val.write(sb)
		}

		sb.WriteByte('}')
	}
}
