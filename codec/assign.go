package codec

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Assign decodes the next value into dst. Destinations implementing
// Decodable are recursed into; primitive destinations accept the protocol's
// primitive forms with lossless numeric coercion. Generated field-decode
// closures call this for every non-hooked field.
func Assign(d Decoder, dst any) error {
	if dec, ok := dst.(Decodable); ok {
		return dec.DecodeSerde(d)
	}

	switch p := dst.(type) {
	case *Value:
		v, err := ReadValue(d)
		if err != nil {
			return err
		}

		*p = v

		return nil
	case *any:
		prim, err := d.VisitPrimitive()
		if err != nil {
			return err
		}

		*p = prim

		return nil
	}

	prim, err := d.VisitPrimitive()
	if err != nil {
		return err
	}

	return assignPrimitive(prim, dst)
}

func assignPrimitive(prim, dst any) error {
	switch p := dst.(type) {
	case *string:
		s, ok := prim.(string)
		if !ok {
			return newTypeMismatch("string", primName(prim), "")
		}

		*p = s
	case *bool:
		b, ok := prim.(bool)
		if !ok {
			return newTypeMismatch("bool", primName(prim), "")
		}

		*p = b
	case *int:
		return assignInt(prim, func(i int64) { *p = int(i) }, math.MinInt, math.MaxInt)
	case *int8:
		return assignInt(prim, func(i int64) { *p = int8(i) }, math.MinInt8, math.MaxInt8)
	case *int16:
		return assignInt(prim, func(i int64) { *p = int16(i) }, math.MinInt16, math.MaxInt16)
	case *int32:
		return assignInt(prim, func(i int64) { *p = int32(i) }, math.MinInt32, math.MaxInt32)
	case *int64:
		return assignInt(prim, func(i int64) { *p = i }, math.MinInt64, math.MaxInt64)
	case *uint:
		return assignUint(prim, func(u uint64) { *p = uint(u) }, math.MaxUint)
	case *uint8:
		return assignUint(prim, func(u uint64) { *p = uint8(u) }, math.MaxUint8)
	case *uint16:
		return assignUint(prim, func(u uint64) { *p = uint16(u) }, math.MaxUint16)
	case *uint32:
		return assignUint(prim, func(u uint64) { *p = uint32(u) }, math.MaxUint32)
	case *uint64:
		return assignUint(prim, func(u uint64) { *p = u }, math.MaxUint64)
	case *float32:
		return assignFloat(prim, func(f float64) { *p = float32(f) })
	case *float64:
		return assignFloat(prim, func(f float64) { *p = f })
	default:
		return errors.Newf("unsupported destination type %T", dst)
	}

	return nil
}

func assignInt(prim any, set func(int64), lo, hi int64) error {
	switch n := prim.(type) {
	case int64:
		if n < lo || n > hi {
			return newTypeMismatch("integer in range", "out-of-range integer", "")
		}

		set(n)

		return nil
	case uint64:
		if n > uint64(math.MaxInt64) || int64(n) > hi {
			return newTypeMismatch("integer in range", "out-of-range integer", "")
		}

		set(int64(n))

		return nil
	default:
		return newTypeMismatch("integer", primName(prim), "")
	}
}

func assignUint(prim any, set func(uint64), hi uint64) error {
	switch n := prim.(type) {
	case uint64:
		if n > hi {
			return newTypeMismatch("unsigned integer in range", "out-of-range integer", "")
		}

		set(n)

		return nil
	case int64:
		if n < 0 || uint64(n) > hi {
			return newTypeMismatch("unsigned integer in range", "out-of-range integer", "")
		}

		set(uint64(n))

		return nil
	default:
		return newTypeMismatch("unsigned integer", primName(prim), "")
	}
}

func assignFloat(prim any, set func(float64)) error {
	switch n := prim.(type) {
	case float64:
		set(n)

		return nil
	case int64:
		set(float64(n))

		return nil
	case uint64:
		set(float64(n))

		return nil
	default:
		return newTypeMismatch("float", primName(prim), "")
	}
}

func primName(prim any) string {
	switch prim.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case int64:
		return "int"
	case uint64:
		return "uint"
	case float64:
		return "float"
	case string:
		return "string"
	default:
		return "unknown"
	}
}
