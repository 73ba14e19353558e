package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
)

// Op is a binary arithmetic operator.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// Arith applies o to a and b. It never fails: a null operand, an undefined
// kind pairing or a division by zero all produce null.
//
// int op int stays int except for division, which always yields a float,
// and results that overflow int64, which promote to float. Mixed int/float
// promotes to float. Text supports concatenation with text
// and repetition by an int.
func Arith(o Op, a, b Value) Value {
	if a.kind == KindNull || b.kind == KindNull {
		return Null()
	}

	switch {
	case a.kind == KindInt && b.kind == KindInt:
		return intArith(o, a.i, b.i)
	case a.IsNumeric() && b.IsNumeric():
		x, _ := a.Float()
		y, _ := b.Float()
		return floatArith(o, x, y)
	case a.kind == KindText && b.kind == KindText && o == OpAdd:
		return Text(a.s + b.s)
	case a.kind == KindText && b.kind == KindInt && o == OpMul:
		return repeat(a.s, b.i)
	case a.kind == KindInt && b.kind == KindText && o == OpMul:
		return repeat(b.s, a.i)
	default:
		return Null()
	}
}

func intArith(o Op, x, y int64) Value {
	switch o {
	case OpAdd:
		r := x + y
		if (x > 0 && y > 0 && r < 0) || (x < 0 && y < 0 && r >= 0) {
			return Float(float64(x) + float64(y))
		}
		return Int(r)
	case OpSub:
		r := x - y
		if (y > 0 && r > x) || (y < 0 && r < x) {
			return Float(float64(x) - float64(y))
		}
		return Int(r)
	case OpMul:
		r := x * y
		if x != 0 && (r/x != y || (x == -1 && y == math.MinInt64)) {
			return Float(float64(x) * float64(y))
		}
		return Int(r)
	case OpDiv:
		if y == 0 {
			return Null()
		}
		return Float(float64(x) / float64(y))
	}
	return Null()
}

func floatArith(o Op, x, y float64) Value {
	switch o {
	case OpAdd:
		return Float(x + y)
	case OpSub:
		return Float(x - y)
	case OpMul:
		return Float(x * y)
	case OpDiv:
		if y == 0 {
			return Null()
		}
		return Float(x / y)
	}
	return Null()
}

// MaxTextLen caps the byte length of a repeated text value. Larger results
// are null.
const MaxTextLen = 1 << 30

func repeat(s string, n int64) Value {
	if n <= 0 || s == "" {
		return Text("")
	}
	if int64(len(s)) > MaxTextLen/n {
		return Null()
	}
	return Text(strings.Repeat(s, int(n)))
}

func Add(a, b Value) Value { return Arith(OpAdd, a, b) }
func Sub(a, b Value) Value { return Arith(OpSub, a, b) }
func Mul(a, b Value) Value { return Arith(OpMul, a, b) }
func Div(a, b Value) Value { return Arith(OpDiv, a, b) }

// Compare orders two non-null values of mutually comparable kinds: numbers
// with numbers, text with text, bools with bools. Anything else, including
// a null operand, fails with a type mismatch.
func Compare(a, b Value) (int, error) {
	switch {
	case a.kind == KindInt && b.kind == KindInt:
		return cmpInt(a.i, b.i), nil
	case a.IsNumeric() && b.IsNumeric():
		x, _ := a.Float()
		y, _ := b.Float()
		return cmpFloat(x, y), nil
	case a.kind == KindText && b.kind == KindText:
		return strings.Compare(a.s, b.s), nil
	case a.kind == KindBool && b.kind == KindBool:
		return cmpInt(a.i, b.i), nil
	default:
		return 0, dferrors.Newf(dferrors.ErrorTypeTypeMismatch,
			"'<' not supported between %s and %s", a.kind, b.kind).
			WithDetail("left", a.String()).
			WithDetail("right", b.String())
	}
}

func cmpInt(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func cmpFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// Order is a total order used where a deterministic sequence is required
// regardless of kinds (group keys): non-null before null, then comparable
// kinds by value, then incomparable kinds by kind rank.
func Order(a, b Value) int {
	an, bn := a.kind == KindNull, b.kind == KindNull
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	}
	if c, err := Compare(a, b); err == nil {
		return c
	}
	return cmpInt(int64(rank(a.kind)), int64(rank(b.kind)))
}

func rank(k Kind) int {
	switch k {
	case KindInt, KindFloat:
		return 0
	case KindBool:
		return 1
	case KindText:
		return 2
	default:
		return 3
	}
}

// Equal reports value equality. Nulls equal nothing, not even another null;
// ints and floats compare numerically; other kinds must match exactly.
func Equal(a, b Value) bool {
	if a.kind == KindNull || b.kind == KindNull {
		return false
	}
	if a.IsNumeric() && b.IsNumeric() {
		if a.kind == KindInt && b.kind == KindInt {
			return a.i == b.i
		}
		x, _ := a.Float()
		y, _ := b.Float()
		return x == y
	}
	return a.kind == b.kind && a.i == b.i && a.s == b.s
}

// Same reports whether a and b denote the same key, treating null as equal
// to null. It is the equality behind hashing, grouping and isin.
func Same(a, b Value) bool {
	if a.kind == KindNull || b.kind == KindNull {
		return a.kind == b.kind
	}
	return a.Key() == b.Key()
}

// CmpOp is a comparison operator.
type CmpOp uint8

const (
	CmpEq CmpOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

func (c CmpOp) String() string {
	return [...]string{"==", "!=", "<", "<=", ">", ">="}[c]
}

// Cmp evaluates a comparison with the column null policy: a null operand is
// false, and ordering across incomparable kinds is false. Equality is defined
// across all kinds, so != between incomparable non-null values is true.
func Cmp(op CmpOp, a, b Value) bool {
	if a.kind == KindNull || b.kind == KindNull {
		return false
	}
	switch op {
	case CmpEq:
		return Equal(a, b)
	case CmpNe:
		return !Equal(a, b)
	}
	c, err := Compare(a, b)
	if err != nil {
		return false
	}
	switch op {
	case CmpLt:
		return c < 0
	case CmpLe:
		return c <= 0
	case CmpGt:
		return c > 0
	case CmpGe:
		return c >= 0
	}
	return false
}

// Cast converts v to kind k. Null passes through unchanged. Failures are
// value errors carrying the offending value.
func Cast(v Value, k Kind) (Value, error) {
	if v.kind == KindNull || v.kind == k {
		return v, nil
	}
	switch k {
	case KindInt:
		switch v.kind {
		case KindFloat:
			if math.IsNaN(v.f) || math.IsInf(v.f, 0) || v.f >= math.MaxInt64 || v.f < math.MinInt64 {
				return Null(), castError(v, k)
			}
			return Int(int64(v.f)), nil
		case KindBool:
			return Int(v.i), nil
		case KindText:
			i, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
			if err != nil {
				return Null(), castError(v, k)
			}
			return Int(i), nil
		}
	case KindFloat:
		switch v.kind {
		case KindInt, KindBool:
			return Float(float64(v.i)), nil
		case KindText:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
			if err != nil {
				return Null(), castError(v, k)
			}
			return Float(f), nil
		}
	case KindText:
		return Text(v.String()), nil
	case KindBool:
		switch v.kind {
		case KindInt:
			return Bool(v.i != 0), nil
		case KindFloat:
			return Bool(v.f != 0), nil
		case KindText:
			return Bool(v.s != ""), nil
		}
	}
	return Null(), castError(v, k)
}

func castError(v Value, k Kind) error {
	return dferrors.Newf(dferrors.ErrorTypeValue, "could not cast value '%s' to %s", v.String(), k).
		WithDetail("value", v.Interface()).
		WithDetail("kind", k.String())
}
