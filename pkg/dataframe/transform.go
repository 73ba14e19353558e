package dataframe

import (
	"go.uber.org/zap"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/nash-dir/lesserpandas/pkg/logger"
	"github.com/nash-dir/lesserpandas/pkg/series"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

// Select returns the named columns in the requested order with the shared
// index. Names absent from the table are skipped.
func (df *DataFrame) Select(names ...string) *DataFrame {
	cols := make(map[string][]value.Value, len(names))
	order := make([]string, 0, len(names))
	for _, name := range names {
		vals, ok := df.columns[name]
		if !ok {
			continue
		}
		if _, dup := cols[name]; dup {
			continue
		}
		cols[name] = cloneValues(vals)
		order = append(order, name)
	}
	return build(order, cols, cloneValues(df.index), df.length)
}

// Filter keeps the rows where mask is true, with their index labels, in
// original order. The mask length must equal the row count.
func (df *DataFrame) Filter(mask []bool) (*DataFrame, error) {
	if len(mask) != df.length {
		return nil, dferrors.Newf(dferrors.ErrorTypeShape,
			"item length %d does not match table length %d", len(mask), df.length)
	}
	positions := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep {
			positions = append(positions, i)
		}
	}
	return df.take(positions), nil
}

// Where filters by a boolean Series, as produced by comparisons.
func (df *DataFrame) Where(mask *series.Series) (*DataFrame, error) {
	bools, err := mask.Bools()
	if err != nil {
		return nil, err
	}
	return df.Filter(bools)
}

// Set assigns a column in place. data may be a scalar, broadcast to every
// row, or a sequence or Series whose length equals the row count. On a
// table with no columns the first assignment fixes the row count and a
// default index; a scalar then yields one row.
func (df *DataFrame) Set(name string, data interface{}) error {
	vals, isSeq, err := sequence(data)
	if err != nil {
		return dferrors.Wrap(err, dferrors.ErrorTypeTypeMismatch, "invalid column data").
			WithDetail("column", name)
	}

	if len(df.order) == 0 && df.length == 0 {
		df.length = len(vals)
		df.index = series.RangeIndex(df.length)
	}

	if !isSeq {
		fill := vals[0]
		vals = make([]value.Value, df.length)
		for i := range vals {
			vals[i] = fill
		}
	} else if len(vals) != df.length {
		return dferrors.Newf(dferrors.ErrorTypeShape,
			"length of values (%d) does not match length of index (%d)", len(vals), df.length).
			WithDetail("column", name)
	}

	if df.columns == nil {
		df.columns = make(map[string][]value.Value)
	}
	if _, exists := df.columns[name]; !exists {
		df.order = append(df.order, name)
	}
	df.columns[name] = vals
	return nil
}

// Drop returns a table without the named columns. Every name must exist.
func (df *DataFrame) Drop(names ...string) (*DataFrame, error) {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		if !df.Has(name) {
			return nil, df.missing(name)
		}
		drop[name] = struct{}{}
	}
	keep := make([]string, 0, len(df.order))
	for _, name := range df.order {
		if _, ok := drop[name]; !ok {
			keep = append(keep, name)
		}
	}
	out := df.Select(keep...)
	return out, nil
}

// Rename returns a table with columns renamed per mapping, order preserved.
// Unmapped columns keep their name. A rename that would produce two
// columns with the same name is a value error.
func (df *DataFrame) Rename(mapping map[string]string) (*DataFrame, error) {
	cols := make(map[string][]value.Value, len(df.columns))
	order := make([]string, len(df.order))
	for i, name := range df.order {
		target := name
		if to, ok := mapping[name]; ok {
			target = to
		}
		if _, dup := cols[target]; dup {
			return nil, dferrors.Newf(dferrors.ErrorTypeValue, "rename produces duplicate column %q", target)
		}
		cols[target] = cloneValues(df.columns[name])
		order[i] = target
	}
	return build(order, cols, cloneValues(df.index), df.length), nil
}

// Computed produces a column from a table. Assign calls it with the table
// as it was before the Assign call.
type Computed func(*DataFrame) (interface{}, error)

// Assignment is one named column for Assign. Value is a Computed, a
// scalar, a sequence or a Series.
type Assignment struct {
	Name  string
	Value interface{}
}

// Assign returns a copy with the given columns added or replaced, in
// argument order. Computed values see the original table, not earlier
// assignments from the same call.
func (df *DataFrame) Assign(assignments ...Assignment) (*DataFrame, error) {
	out := df.Copy()
	for _, a := range assignments {
		data := a.Value
		switch fn := data.(type) {
		case Computed:
			v, err := fn(df)
			if err != nil {
				return nil, err
			}
			data = v
		case func(*DataFrame) (interface{}, error):
			v, err := fn(df)
			if err != nil {
				return nil, err
			}
			data = v
		}
		if err := out.Set(a.Name, data); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ColumnFunc is applied once per column by ApplyColumns.
type ColumnFunc func(*series.Series) (interface{}, error)

// RowFunc is applied once per row by ApplyRows.
type RowFunc func(*Record) (value.Value, error)

func (fn RowFunc) call(r *Record) (v value.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			v, err = value.Null(), dferrors.Newf(dferrors.ErrorTypeValue, "row function panicked: %v", p)
		}
	}()
	return fn(r)
}

// ColumnResults is the outcome of ApplyColumns. When every call returned a
// Series, Frame holds them as a table; otherwise Results maps each column
// name to its result and Frame is nil.
type ColumnResults struct {
	Frame   *DataFrame
	Names   []string
	Results map[string]interface{}
}

// ApplyColumns calls fn once per column, in column order. An error from fn
// aborts the whole operation.
func (df *DataFrame) ApplyColumns(fn ColumnFunc) (*ColumnResults, error) {
	res := &ColumnResults{Names: df.Columns(), Results: make(map[string]interface{}, len(df.order))}
	allSeries := true
	cols := make([]ColumnData, 0, len(df.order))
	for _, name := range df.order {
		s, err := df.Column(name)
		if err != nil {
			return nil, err
		}
		r, err := fn(s)
		if err != nil {
			return nil, dferrors.Wrap(err, dferrors.ErrorTypeValue, "apply failed").
				WithDetail("column", name)
		}
		res.Results[name] = r
		if rs, ok := r.(*series.Series); ok {
			cols = append(cols, Col(name, rs))
		} else {
			allSeries = false
		}
	}

	if allSeries && len(cols) > 0 {
		frame, err := New(cols...)
		if err != nil {
			return nil, err
		}
		if frame.length == df.length {
			frame.index = cloneValues(df.index)
		}
		res.Frame = frame
	}
	return res, nil
}

// ApplyRows calls fn once per row and collects the results into a Series
// sharing the table's index. An error or panic from fn yields null for that
// row.
func (df *DataFrame) ApplyRows(fn RowFunc) *series.Series {
	out := make([]value.Value, df.length)
	failed := 0
	for i := 0; i < df.length; i++ {
		v, err := fn.call(df.row(i))
		if err != nil {
			failed++
			continue
		}
		out[i] = v
	}
	if failed > 0 {
		logger.Debug("row apply produced nulls for failed rows",
			zap.Int("failed", failed),
			zap.Int("rows", df.length))
	}
	return series.Must(series.New("", out, series.WithIndex(df.index), series.NoCopy()))
}

// Apply dispatches on axis: 0 runs a ColumnFunc per column and returns
// *ColumnResults, 1 runs a RowFunc per row and returns *series.Series.
// Any other axis is a value error.
func (df *DataFrame) Apply(fn interface{}, axis int) (interface{}, error) {
	switch axis {
	case 0:
		switch f := fn.(type) {
		case ColumnFunc:
			return df.ApplyColumns(f)
		case func(*series.Series) (interface{}, error):
			return df.ApplyColumns(f)
		}
	case 1:
		switch f := fn.(type) {
		case RowFunc:
			return df.ApplyRows(f), nil
		case func(*Record) (value.Value, error):
			return df.ApplyRows(f), nil
		}
	default:
		return nil, dferrors.Newf(dferrors.ErrorTypeValue, "no axis named %d", axis)
	}
	return nil, dferrors.Newf(dferrors.ErrorTypeTypeMismatch, "function %T does not fit axis %d", fn, axis)
}

// FillNA returns a copy with every null replaced by fill.
func (df *DataFrame) FillNA(fill interface{}) (*DataFrame, error) {
	v, err := value.Of(fill)
	if err != nil {
		return nil, err
	}
	out := df.Copy()
	for _, vals := range out.columns {
		for i := range vals {
			if vals[i].IsNull() {
				vals[i] = v
			}
		}
	}
	return out, nil
}

// DropNA keeps only the rows with no null in any column. When every row is
// dropped the result has zero rows and the original columns.
func (df *DataFrame) DropNA() *DataFrame {
	positions := make([]int, 0, df.length)
	for i := 0; i < df.length; i++ {
		complete := true
		for _, name := range df.order {
			if df.columns[name][i].IsNull() {
				complete = false
				break
			}
		}
		if complete {
			positions = append(positions, i)
		}
	}
	return df.take(positions)
}
