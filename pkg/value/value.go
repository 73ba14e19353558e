// Package value defines the closed set of scalar kinds a column can hold:
// null, int, float, text and bool. Values are small comparable structs so
// they can be stored by value in column buffers and used as map keys after
// normalization with Key.
package value

import (
	"math"
	"strconv"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	stringpool "github.com/nash-dir/lesserpandas/pkg/strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseKind resolves a type name as accepted by astype-style operations.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "int", "int64", "integer":
		return KindInt, nil
	case "float", "float64", "double":
		return KindFloat, nil
	case "text", "str", "string":
		return KindText, nil
	case "bool", "boolean":
		return KindBool, nil
	default:
		return KindNull, dferrors.Newf(dferrors.ErrorTypeValue, "unsupported type %q", name).
			WithDetail("type", name)
	}
}

// Value is one column cell. The zero Value is null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Null returns the absent-value marker.
func Null() Value { return Value{} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, i: 1}
	}
	return Value{kind: KindBool}
}

// Of converts a Go scalar into a Value. nil becomes null. Any type outside
// the integer, float, string and bool families fails with a type mismatch.
func Of(x interface{}) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return fromUint(uint64(v))
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		return fromUint(v)
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case string:
		return Text(v), nil
	case bool:
		return Bool(v), nil
	default:
		return Null(), dferrors.Newf(dferrors.ErrorTypeTypeMismatch, "unsupported value type %T", x)
	}
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Null(), dferrors.Newf(dferrors.ErrorTypeTypeMismatch, "unsigned value %d overflows int64", u)
	}
	return Int(int64(u)), nil
}

// MustOf is Of that panics on unsupported input. Intended for literals.
func MustOf(x interface{}) Value {
	v, err := Of(x)
	if err != nil {
		panic(err)
	}
	return v
}

// Values converts a list of Go scalars, failing on the first unsupported one.
func Values(xs ...interface{}) ([]Value, error) {
	out := make([]Value, len(xs))
	for i, x := range xs {
		v, err := Of(x)
		if err != nil {
			return nil, dferrors.Wrap(err, dferrors.ErrorTypeTypeMismatch, "invalid element").
				WithDetail("position", i)
		}
		out[i] = v
	}
	return out, nil
}

// MustValues is Values that panics on unsupported input.
func MustValues(xs ...interface{}) []Value {
	out, err := Values(xs...)
	if err != nil {
		panic(err)
	}
	return out
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNumeric reports whether v is an int or a float.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// Int returns the integer payload. ok is false for any other kind.
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInt
}

// Float returns the numeric payload widened to float64. ok is false for
// non-numeric kinds.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

func (v Value) Text() (string, bool) {
	return v.s, v.kind == KindText
}

func (v Value) Bool() (bool, bool) {
	return v.i != 0, v.kind == KindBool
}

// Interface returns the payload as nil, int64, float64, string or bool.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindBool:
		return v.i != 0
	default:
		return nil
	}
}

// String renders the value for display. Null renders as "null".
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return stringpool.FormatFloat(v.f)
	case KindText:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.i != 0)
	default:
		return "null"
	}
}

// Key returns a normalized copy of v suitable for hashing and map keys:
// integral floats collapse to ints so 1 and 1.0 land in the same bucket.
func (v Value) Key() Value {
	if v.kind == KindFloat && v.f == math.Trunc(v.f) && v.f >= math.MinInt64 && v.f < math.MaxInt64 {
		return Int(int64(v.f))
	}
	return v
}

// AppendKey appends a binary encoding of v.Key() to buf. Equal keys produce
// equal encodings, which makes the output usable as hash input.
func (v Value) AppendKey(buf []byte) []byte {
	k := v.Key()
	buf = append(buf, byte(k.kind))
	switch k.kind {
	case KindInt, KindBool:
		u := uint64(k.i)
		buf = append(buf, byte(u), byte(u>>8), byte(u>>16), byte(u>>24),
			byte(u>>32), byte(u>>40), byte(u>>48), byte(u>>56))
	case KindFloat:
		u := math.Float64bits(k.f)
		buf = append(buf, byte(u), byte(u>>8), byte(u>>16), byte(u>>24),
			byte(u>>32), byte(u>>40), byte(u>>48), byte(u>>56))
	case KindText:
		n := uint32(len(k.s))
		buf = append(buf, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
		buf = append(buf, k.s...)
	}
	return buf
}
