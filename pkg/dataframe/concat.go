package dataframe

import (
	"time"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/nash-dir/lesserpandas/pkg/metrics"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

// Concat stacks tables vertically. The result schema is the union of
// column names in first-seen order; a table lacking a column contributes
// nulls for it. The result has a fresh range index. An empty argument list
// is a value error.
func Concat(frames ...*DataFrame) (out *DataFrame, err error) {
	start := time.Now()
	defer func() {
		metrics.Observe("concat", start, rowCount(out), err)
	}()

	if len(frames) == 0 {
		return nil, dferrors.New(dferrors.ErrorTypeValue, "no objects to concatenate")
	}

	var order []string
	total := 0
	seen := make(map[string]struct{})
	for i, f := range frames {
		if f == nil {
			return nil, dferrors.Newf(dferrors.ErrorTypeTypeMismatch, "table %d is nil", i)
		}
		for _, name := range f.order {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				order = append(order, name)
			}
		}
		total += f.length
	}

	cols := make(map[string][]value.Value, len(order))
	for _, name := range order {
		dst := make([]value.Value, 0, total)
		for _, f := range frames {
			if src, ok := f.columns[name]; ok {
				dst = append(dst, src...)
			} else {
				dst = append(dst, make([]value.Value, f.length)...)
			}
		}
		cols[name] = dst
	}
	return build(order, cols, nil, total), nil
}
