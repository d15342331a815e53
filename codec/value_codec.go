package codec

import (
	"github.com/cockroachdb/errors"
)

// ValueEncoder builds a Value tree through the visitor protocol. It is the
// reference Encoder used by tests; wire formats would stream instead.
type ValueEncoder struct {
	stack []*frame
	done  bool
	out   Value
}

type frame struct {
	isMap   bool
	key     string
	seq     []Value
	entries []Entry
}

// NewValueEncoder returns an empty encoder ready for one value.
func NewValueEncoder() *ValueEncoder {
	return &ValueEncoder{}
}

// Value returns the encoded tree. Valid only once encoding completed.
func (e *ValueEncoder) Value() (Value, error) {
	if !e.done {
		return Value{}, errors.New("encoding incomplete: unbalanced begin/end calls")
	}

	return e.out, nil
}

func (e *ValueEncoder) BeginSequence(lenHint int) error {
	f := &frame{}
	if lenHint > 0 {
		f.seq = make([]Value, 0, lenHint)
	}

	e.stack = append(e.stack, f)

	return nil
}

func (e *ValueEncoder) EncodeElement(v any) error {
	f, err := e.top(false)
	if err != nil {
		return err
	}

	val, err := ValueOf(v)
	if err != nil {
		return err
	}

	f.seq = append(f.seq, val)

	return nil
}

func (e *ValueEncoder) EndSequence() error {
	f, err := e.top(false)
	if err != nil {
		return err
	}

	e.stack = e.stack[:len(e.stack)-1]

	return e.emit(Seq(f.seq...))
}

func (e *ValueEncoder) BeginMap(lenHint int) error {
	f := &frame{isMap: true}
	if lenHint > 0 {
		f.entries = make([]Entry, 0, lenHint)
	}

	e.stack = append(e.stack, f)

	return nil
}

func (e *ValueEncoder) EncodeEntry(key string, v any) error {
	f, err := e.top(true)
	if err != nil {
		return err
	}

	val, err := ValueOf(v)
	if err != nil {
		return err
	}

	f.entries = append(f.entries, Entry{Key: key, Val: val})

	return nil
}

func (e *ValueEncoder) EndMap() error {
	f, err := e.top(true)
	if err != nil {
		return err
	}

	e.stack = e.stack[:len(e.stack)-1]

	return e.emit(MapOf(f.entries...))
}

func (e *ValueEncoder) EncodePrimitive(v any) error {
	val, err := ValueOf(v)
	if err != nil {
		return err
	}

	return e.emit(val)
}

func (e *ValueEncoder) top(wantMap bool) (*frame, error) {
	if len(e.stack) == 0 {
		return nil, errors.New("no open container")
	}

	f := e.stack[len(e.stack)-1]
	if f.isMap != wantMap {
		if wantMap {
			return nil, errors.New("current container is a sequence, not a map")
		}

		return nil, errors.New("current container is a map, not a sequence")
	}

	return f, nil
}

// emit places a finished value either into the enclosing container or as
// the final result.
func (e *ValueEncoder) emit(v Value) error {
	if len(e.stack) == 0 {
		if e.done {
			return errors.New("encoder already holds a completed value")
		}

		e.out = v
		e.done = true

		return nil
	}

	f := e.stack[len(e.stack)-1]
	if f.isMap {
		return errors.New("value emitted into map without a key")
	}

	f.seq = append(f.seq, v)

	return nil
}

// ValueOf converts a Go value into the generic representation. Encodable
// values are recursed into with a fresh ValueEncoder.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return Str(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Uint(uint64(x)), nil
	case uint8:
		return Uint(uint64(x)), nil
	case uint16:
		return Uint(uint64(x)), nil
	case uint32:
		return Uint(uint64(x)), nil
	case uint64:
		return Uint(x), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case []any:
		elems := make([]Value, 0, len(x))

		for _, el := range x {
			ev, err := ValueOf(el)
			if err != nil {
				return Value{}, err
			}

			elems = append(elems, ev)
		}

		return Seq(elems...), nil
	case Encodable:
		sub := NewValueEncoder()
		if err := x.EncodeSerde(sub); err != nil {
			return Value{}, err
		}

		return sub.Value()
	default:
		return Value{}, errors.Newf("unsupported value type %T", v)
	}
}

// Encode pushes a single top-level value through the encoder, dispatching
// on its dynamic type. Generated newtype serializers and untagged variant
// arms use it for transparent forwarding.
func Encode(e Encoder, v any) error {
	if enc, ok := v.(Encodable); ok {
		return enc.EncodeSerde(e)
	}

	if val, ok := v.(Value); ok {
		return WriteValue(e, val)
	}

	return e.EncodePrimitive(v)
}

// WriteValue replays a Value tree into an arbitrary encoder.
func WriteValue(e Encoder, v Value) error {
	switch v.Kind() {
	case KindSeq:
		if err := e.BeginSequence(len(v.seq)); err != nil {
			return err
		}

		for _, el := range v.seq {
			if err := e.EncodeElement(el); err != nil {
				return err
			}
		}

		return e.EndSequence()
	case KindMap:
		if err := e.BeginMap(len(v.entries)); err != nil {
			return err
		}

		for _, ent := range v.entries {
			if err := e.EncodeEntry(ent.Key, ent.Val); err != nil {
				return err
			}
		}

		return e.EndMap()
	default:
		prim, err := v.Primitive()
		if err != nil {
			return err
		}

		return e.EncodePrimitive(prim)
	}
}

// ValueDecoder exposes a Value tree through the decode side of the
// protocol.
type ValueDecoder struct {
	val Value
}

// NewValueDecoder wraps a Value for decoding.
func NewValueDecoder(v Value) *ValueDecoder {
	return &ValueDecoder{val: v}
}

func (d *ValueDecoder) VisitSequence() (SeqIter, error) {
	elems, err := d.val.Elems()
	if err != nil {
		return nil, err
	}

	return &valueSeqIter{elems: elems}, nil
}

func (d *ValueDecoder) VisitMap() (MapIter, error) {
	entries, err := d.val.Entries()
	if err != nil {
		return nil, err
	}

	return &valueMapIter{entries: entries}, nil
}

func (d *ValueDecoder) VisitPrimitive() (any, error) {
	return d.val.Primitive()
}

type valueSeqIter struct {
	elems []Value
	pos   int
}

func (it *valueSeqIter) Next() (Decoder, bool) {
	if it.pos >= len(it.elems) {
		return nil, false
	}

	d := NewValueDecoder(it.elems[it.pos])
	it.pos++

	return d, true
}

type valueMapIter struct {
	entries []Entry
	pos     int
}

func (it *valueMapIter) Next() (string, Decoder, bool) {
	if it.pos >= len(it.entries) {
		return "", nil, false
	}

	ent := it.entries[it.pos]
	it.pos++

	return ent.Key, NewValueDecoder(ent.Val), true
}

// ReadValue drains an arbitrary decoder into the generic representation.
// Internally and adjacently tagged enums buffer through it while resolving
// the discriminant; that buffering is a cost of those styles, not of the
// decode algorithm in general.
func ReadValue(d Decoder) (Value, error) {
	if vd, ok := d.(*ValueDecoder); ok {
		return vd.val, nil
	}

	if it, err := d.VisitMap(); err == nil {
		var entries []Entry

		for {
			key, ed, ok := it.Next()
			if !ok {
				break
			}

			ev, err := ReadValue(ed)
			if err != nil {
				return Value{}, err
			}

			entries = append(entries, Entry{Key: key, Val: ev})
		}

		return MapOf(entries...), nil
	}

	if it, err := d.VisitSequence(); err == nil {
		var elems []Value

		for {
			ed, ok := it.Next()
			if !ok {
				break
			}

			ev, err := ReadValue(ed)
			if err != nil {
				return Value{}, err
			}

			elems = append(elems, ev)
		}

		return Seq(elems...), nil
	}

	prim, err := d.VisitPrimitive()
	if err != nil {
		return Value{}, err
	}

	return ValueOf(prim)
}
