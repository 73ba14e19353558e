package series

import (
	"sort"

	"go.uber.org/zap"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/nash-dir/lesserpandas/pkg/logger"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

// operand resolves the right-hand side of an elementwise operation: another
// Series of equal length, a value.Value, or a Go scalar broadcast to every
// position.
func (s *Series) operand(other interface{}) (func(int) value.Value, error) {
	switch o := other.(type) {
	case *Series:
		if o.Len() != s.Len() {
			return nil, dferrors.Newf(dferrors.ErrorTypeShape,
				"length mismatch: %d vs %d", s.Len(), o.Len())
		}
		return func(i int) value.Value { return o.values[i] }, nil
	default:
		v, err := value.Of(other)
		if err != nil {
			return nil, err
		}
		return func(int) value.Value { return v }, nil
	}
}

func (s *Series) arith(op value.Op, other interface{}) (*Series, error) {
	rhs, err := s.operand(other)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(s.values))
	for i, v := range s.values {
		out[i] = value.Arith(op, v, rhs(i))
	}
	return s.derive(out), nil
}

// Add returns s + other elementwise. other is a Series of equal length or a
// scalar. Positions where either side is null or the operation is undefined
// are null.
func (s *Series) Add(other interface{}) (*Series, error) { return s.arith(value.OpAdd, other) }

// Sub returns s - other elementwise.
func (s *Series) Sub(other interface{}) (*Series, error) { return s.arith(value.OpSub, other) }

// Mul returns s * other elementwise.
func (s *Series) Mul(other interface{}) (*Series, error) { return s.arith(value.OpMul, other) }

// Div returns s / other elementwise. Division by zero yields null.
func (s *Series) Div(other interface{}) (*Series, error) { return s.arith(value.OpDiv, other) }

func (s *Series) compare(op value.CmpOp, other interface{}) (*Series, error) {
	rhs, err := s.operand(other)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(s.values))
	for i, v := range s.values {
		out[i] = value.Bool(value.Cmp(op, v, rhs(i)))
	}
	return s.derive(out), nil
}

// Eq compares elementwise for equality. Comparisons never yield null: a null
// operand or an incomparable pairing is false.
func (s *Series) Eq(other interface{}) (*Series, error) { return s.compare(value.CmpEq, other) }
func (s *Series) Ne(other interface{}) (*Series, error) { return s.compare(value.CmpNe, other) }
func (s *Series) Lt(other interface{}) (*Series, error) { return s.compare(value.CmpLt, other) }
func (s *Series) Le(other interface{}) (*Series, error) { return s.compare(value.CmpLe, other) }
func (s *Series) Gt(other interface{}) (*Series, error) { return s.compare(value.CmpGt, other) }
func (s *Series) Ge(other interface{}) (*Series, error) { return s.compare(value.CmpGe, other) }

func (s *Series) logical(other *Series, fn func(a, b bool) bool) (*Series, error) {
	a, err := s.Bools()
	if err != nil {
		return nil, err
	}
	b, err := other.Bools()
	if err != nil {
		return nil, err
	}
	if len(a) != len(b) {
		return nil, dferrors.Newf(dferrors.ErrorTypeShape, "length mismatch: %d vs %d", len(a), len(b))
	}
	out := make([]value.Value, len(a))
	for i := range a {
		out[i] = value.Bool(fn(a[i], b[i]))
	}
	return s.derive(out), nil
}

// And combines two boolean columns. Null counts as false.
func (s *Series) And(other *Series) (*Series, error) {
	return s.logical(other, func(a, b bool) bool { return a && b })
}

// Or combines two boolean columns. Null counts as false.
func (s *Series) Or(other *Series) (*Series, error) {
	return s.logical(other, func(a, b bool) bool { return a || b })
}

// Not negates a boolean column. Null counts as false, so it becomes true.
func (s *Series) Not() (*Series, error) {
	mask, err := s.Bools()
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(mask))
	for i, m := range mask {
		out[i] = value.Bool(!m)
	}
	return s.derive(out), nil
}

// IsIn tests membership of each element in values. Null is a member only if
// values contains null.
func (s *Series) IsIn(values ...value.Value) *Series {
	set := make(map[value.Value]struct{}, len(values))
	for _, v := range values {
		set[v.Key()] = struct{}{}
	}
	out := make([]value.Value, len(s.values))
	for i, v := range s.values {
		_, ok := set[v.Key()]
		out[i] = value.Bool(ok)
	}
	return s.derive(out)
}

// IsNull reports which positions hold null.
func (s *Series) IsNull() *Series {
	out := make([]value.Value, len(s.values))
	for i, v := range s.values {
		out[i] = value.Bool(v.IsNull())
	}
	return s.derive(out)
}

// Func is an element function. A returned error or a panic turns that
// element into null.
type Func func(value.Value) (value.Value, error)

func (fn Func) call(v value.Value) (r value.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = value.Null(), dferrors.Newf(dferrors.ErrorTypeValue, "element function panicked: %v", p)
		}
	}()
	return fn(v)
}

// Apply maps fn over every element. An error or panic from fn yields null at
// that position and leaves every other element unaffected.
func (s *Series) Apply(fn Func) *Series {
	out := make([]value.Value, len(s.values))
	failed := 0
	for i, v := range s.values {
		r, err := fn.call(v)
		if err != nil {
			failed++
			out[i] = value.Null()
			continue
		}
		out[i] = r
	}
	if failed > 0 {
		logger.Debug("apply produced nulls for failed elements",
			zap.String("series", s.name),
			zap.Int("failed", failed),
			zap.Int("total", len(s.values)))
	}
	return s.derive(out)
}

// AsType casts every element to kind. Null stays null. The first failed
// cast aborts the whole operation with a value error.
func (s *Series) AsType(kind value.Kind) (*Series, error) {
	out := make([]value.Value, len(s.values))
	for i, v := range s.values {
		c, err := value.Cast(v, kind)
		if err != nil {
			return nil, dferrors.Wrap(err, dferrors.ErrorTypeValue, "astype failed").
				WithDetail("series", s.name).
				WithDetail("position", i)
		}
		out[i] = c
	}
	return s.derive(out), nil
}

// FillNA replaces nulls with v.
func (s *Series) FillNA(v value.Value) *Series {
	out := make([]value.Value, len(s.values))
	for i, x := range s.values {
		if x.IsNull() {
			x = v
		}
		out[i] = x
	}
	return s.derive(out)
}

// ValueCounts counts occurrences of each distinct value, null included.
// The result is indexed by the distinct values and ordered by count
// descending. Ties keep first-seen order; callers should not rely on it.
func (s *Series) ValueCounts() *Series {
	type bucket struct {
		label value.Value
		count int64
	}
	pos := make(map[value.Value]int)
	var buckets []bucket
	for _, v := range s.values {
		k := v.Key()
		if i, ok := pos[k]; ok {
			buckets[i].count++
			continue
		}
		pos[k] = len(buckets)
		buckets = append(buckets, bucket{label: v, count: 1})
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].count > buckets[j].count
	})

	counts := make([]value.Value, len(buckets))
	labels := make([]value.Value, len(buckets))
	for i, b := range buckets {
		counts[i] = value.Int(b.count)
		labels[i] = b.label
	}
	return &Series{name: s.name, values: counts, index: labels}
}

// Unique returns distinct values in first-seen order.
func (s *Series) Unique() []value.Value {
	seen := make(map[value.Value]struct{})
	var out []value.Value
	for _, v := range s.values {
		k := v.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}
