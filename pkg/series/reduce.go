package series

import (
	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

// Reducer names accepted by Reduce.
const (
	ReduceSum   = "sum"
	ReduceMean  = "mean"
	ReduceCount = "count"
	ReduceMin   = "min"
	ReduceMax   = "max"
)

// Reducers lists the supported reducer names.
var Reducers = []string{ReduceSum, ReduceMean, ReduceCount, ReduceMin, ReduceMax}

// ReducerFunc folds a list of values into one. Nulls must be ignored.
type ReducerFunc func([]value.Value) (value.Value, error)

// LookupReducer resolves a reducer by name. Unknown names are value errors.
func LookupReducer(name string) (ReducerFunc, error) {
	switch name {
	case ReduceSum:
		return Sum, nil
	case ReduceMean:
		return Mean, nil
	case ReduceCount:
		return Count, nil
	case ReduceMin:
		return Min, nil
	case ReduceMax:
		return Max, nil
	default:
		return nil, dferrors.Newf(dferrors.ErrorTypeValue, "unknown reducer %q", name).
			WithDetail("supported", Reducers)
	}
}

// Sum adds the non-null values. It is null when there are none. Ints sum to
// an int unless the total overflows int64; any float promotes the result to
// float. A non-numeric value is a type mismatch.
func Sum(vs []value.Value) (value.Value, error) {
	acc, n := value.Null(), 0
	for _, v := range vs {
		if v.IsNull() {
			continue
		}
		if !v.IsNumeric() {
			return value.Null(), dferrors.Newf(dferrors.ErrorTypeTypeMismatch,
				"unsupported operand for sum: %s", v.Kind())
		}
		if n == 0 {
			acc = v
		} else {
			acc = value.Add(acc, v)
		}
		n++
	}
	return acc, nil
}

// Mean averages the non-null values as a float. It is null when there are none.
func Mean(vs []value.Value) (value.Value, error) {
	total, err := Sum(vs)
	if err != nil || total.IsNull() {
		return value.Null(), err
	}
	c, _ := Count(vs)
	return value.Div(total, c), nil
}

// Count returns the number of non-null values as an int.
func Count(vs []value.Value) (value.Value, error) {
	var n int64
	for _, v := range vs {
		if !v.IsNull() {
			n++
		}
	}
	return value.Int(n), nil
}

// Min returns the smallest non-null value, or null when there are none.
func Min(vs []value.Value) (value.Value, error) { return extreme(vs, -1) }

// Max returns the largest non-null value, or null when there are none.
func Max(vs []value.Value) (value.Value, error) { return extreme(vs, 1) }

func extreme(vs []value.Value, want int) (value.Value, error) {
	best := value.Null()
	for _, v := range vs {
		if v.IsNull() {
			continue
		}
		if best.IsNull() {
			best = v
			continue
		}
		c, err := value.Compare(v, best)
		if err != nil {
			return value.Null(), err
		}
		if c == want {
			best = v
		}
	}
	return best, nil
}

// Reduce applies the named reducer to the whole column.
func (s *Series) Reduce(name string) (value.Value, error) {
	fn, err := LookupReducer(name)
	if err != nil {
		return value.Null(), err
	}
	return fn(s.values)
}

func (s *Series) Sum() (value.Value, error)  { return Sum(s.values) }
func (s *Series) Mean() (value.Value, error) { return Mean(s.values) }
func (s *Series) Min() (value.Value, error)  { return Min(s.values) }
func (s *Series) Max() (value.Value, error)  { return Max(s.values) }

// Count returns the number of non-null values.
func (s *Series) Count() int {
	c, _ := Count(s.values)
	n, _ := c.Int()
	return int(n)
}
