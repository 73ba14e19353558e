package value

import (
	"math"
	"testing"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want Value
	}{
		{"nil", nil, Null()},
		{"int", 3, Int(3)},
		{"int32", int32(-4), Int(-4)},
		{"uint8", uint8(200), Int(200)},
		{"float32", float32(0.5), Float(0.5)},
		{"float64", 2.25, Float(2.25)},
		{"string", "abc", Text("abc")},
		{"bool", true, Bool(true)},
		{"value passthrough", Text("x"), Text("x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Of(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOfRejectsUnsupported(t *testing.T) {
	_, err := Of([]int{1})
	require.Error(t, err)
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeTypeMismatch))

	_, err = Of(uint64(math.MaxUint64))
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeTypeMismatch))

	_, err = Values(1, "a", struct{}{})
	require.Error(t, err)
	assert.Equal(t, 2, err.(*dferrors.Error).Details["position"])
}

func TestAccessors(t *testing.T) {
	i, ok := Int(7).Int()
	assert.True(t, ok)
	assert.Equal(t, int64(7), i)

	f, ok := Int(7).Float()
	assert.True(t, ok)
	assert.Equal(t, 7.0, f)

	_, ok = Text("7").Float()
	assert.False(t, ok)

	b, ok := Bool(true).Bool()
	assert.True(t, ok)
	assert.True(t, b)

	assert.Nil(t, Null().Interface())
	assert.Equal(t, int64(1), Int(1).Interface())
	assert.Equal(t, "x", Text("x").Interface())
	assert.True(t, Null().IsNull())
	assert.Equal(t, Null(), Value{})
}

func TestString(t *testing.T) {
	assert.Equal(t, "null", Null().String())
	assert.Equal(t, "12", Int(12).String())
	assert.Equal(t, "1.0", Float(1).String())
	assert.Equal(t, "0.5", Float(0.5).String())
	assert.Equal(t, "hi", Text("hi").String())
	assert.Equal(t, "false", Bool(false).String())
}

func TestArith(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		a, b Value
		want Value
	}{
		{"int add", OpAdd, Int(2), Int(3), Int(5)},
		{"int sub", OpSub, Int(2), Int(3), Int(-1)},
		{"int mul", OpMul, Int(2), Int(3), Int(6)},
		{"int div is float", OpDiv, Int(3), Int(2), Float(1.5)},
		{"mixed promotes", OpAdd, Int(1), Float(0.5), Float(1.5)},
		{"div by zero", OpDiv, Int(1), Int(0), Null()},
		{"float div by zero", OpDiv, Float(1), Float(0), Null()},
		{"null left", OpAdd, Null(), Int(1), Null()},
		{"null right", OpMul, Int(1), Null(), Null()},
		{"text concat", OpAdd, Text("a"), Text("b"), Text("ab")},
		{"text repeat", OpMul, Text("ab"), Int(2), Text("abab")},
		{"int text repeat", OpMul, Int(2), Text("x"), Text("xx")},
		{"text minus", OpSub, Text("a"), Text("b"), Null()},
		{"text plus int", OpAdd, Text("a"), Int(1), Null()},
		{"bool is not numeric", OpAdd, Bool(true), Int(1), Null()},
		{"add overflow promotes", OpAdd, Int(math.MaxInt64), Int(1), Float(float64(math.MaxInt64) + 1)},
		{"add underflow promotes", OpAdd, Int(math.MinInt64), Int(-1), Float(float64(math.MinInt64) - 1)},
		{"sub overflow promotes", OpSub, Int(math.MinInt64), Int(1), Float(float64(math.MinInt64) - 1)},
		{"sub near bound stays int", OpSub, Int(math.MaxInt64), Int(1), Int(math.MaxInt64 - 1)},
		{"mul overflow promotes", OpMul, Int(math.MaxInt64), Int(2), Float(float64(math.MaxInt64) * 2)},
		{"mul min by minus one promotes", OpMul, Int(math.MinInt64), Int(-1), Float(-float64(math.MinInt64))},
		{"mul minus one by min promotes", OpMul, Int(-1), Int(math.MinInt64), Float(-float64(math.MinInt64))},
		{"text repeat too long", OpMul, Text("ab"), Int(math.MaxInt64), Null()},
		{"text repeat over cap", OpMul, Int(MaxTextLen), Text("ab"), Null()},
		{"empty text repeat", OpMul, Text(""), Int(math.MaxInt64), Text("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Arith(tt.op, tt.a, tt.b))
		})
	}
}

func TestCompare(t *testing.T) {
	c, err := Compare(Int(1), Float(1.5))
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(Text("b"), Text("a"))
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = Compare(Bool(false), Bool(false))
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	_, err = Compare(Int(1), Text("a"))
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeTypeMismatch))

	_, err = Compare(Null(), Int(1))
	assert.Error(t, err)
}

func TestCmpNullPolicy(t *testing.T) {
	for _, op := range []CmpOp{CmpEq, CmpNe, CmpLt, CmpLe, CmpGt, CmpGe} {
		assert.False(t, Cmp(op, Null(), Int(1)), op.String())
		assert.False(t, Cmp(op, Int(1), Null()), op.String())
		assert.False(t, Cmp(op, Null(), Null()), op.String())
	}

	assert.True(t, Cmp(CmpEq, Int(2), Float(2)))
	assert.True(t, Cmp(CmpLe, Int(2), Int(2)))
	assert.True(t, Cmp(CmpGt, Text("b"), Text("a")))
	assert.False(t, Cmp(CmpLt, Int(1), Text("a")))
	assert.False(t, Cmp(CmpEq, Int(1), Text("1")))
	assert.True(t, Cmp(CmpNe, Int(1), Text("1")))
}

func TestOrder(t *testing.T) {
	assert.Equal(t, -1, Order(Int(1), Null()))
	assert.Equal(t, 1, Order(Null(), Text("a")))
	assert.Equal(t, 0, Order(Null(), Null()))
	assert.Equal(t, -1, Order(Int(5), Text("a")))
	assert.Equal(t, 1, Order(Text("a"), Bool(true)))
	assert.Equal(t, -1, Order(Float(0.5), Int(1)))
}

func TestKeyNormalization(t *testing.T) {
	assert.Equal(t, Int(1), Float(1.0).Key())
	assert.Equal(t, Float(1.5), Float(1.5).Key())
	assert.True(t, Same(Int(3), Float(3)))
	assert.True(t, Same(Null(), Null()))
	assert.False(t, Same(Null(), Int(0)))
	assert.False(t, Same(Bool(true), Int(1)))

	assert.Equal(t, Int(2).AppendKey(nil), Float(2).AppendKey(nil))
	assert.NotEqual(t, Text("ab").AppendKey(nil), Text("a").AppendKey(Text("b").AppendKey(nil)))
}

func TestCast(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		kind Kind
		want Value
	}{
		{"null passes", Null(), KindInt, Null()},
		{"float truncates", Float(2.9), KindInt, Int(2)},
		{"text to int", Text(" 42 "), KindInt, Int(42)},
		{"bool to int", Bool(true), KindInt, Int(1)},
		{"int to float", Int(3), KindFloat, Float(3)},
		{"text to float", Text("1.25"), KindFloat, Float(1.25)},
		{"int to text", Int(3), KindText, Text("3")},
		{"float to text", Float(3), KindText, Text("3.0")},
		{"int to bool", Int(0), KindBool, Bool(false)},
		{"text to bool", Text("x"), KindBool, Bool(true)},
		{"identity", Text("x"), KindText, Text("x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cast(tt.in, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCastFailures(t *testing.T) {
	for _, in := range []Value{Text("abc"), Text("1.5"), Float(math.NaN()), Float(math.Inf(1))} {
		_, err := Cast(in, KindInt)
		require.Error(t, err, in.String())
		assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeValue))
	}

	_, err := Cast(Int(1), KindNull)
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("str")
	require.NoError(t, err)
	assert.Equal(t, KindText, k)

	k, err = ParseKind("float64")
	require.NoError(t, err)
	assert.Equal(t, KindFloat, k)

	_, err = ParseKind("complex")
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeValue))
}
