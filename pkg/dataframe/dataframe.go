package dataframe

import (
	"sort"
	"time"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/nash-dir/lesserpandas/pkg/metrics"
	"github.com/nash-dir/lesserpandas/pkg/series"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

// DataFrame is a columnar table with a shared row index.
type DataFrame struct {
	columns map[string][]value.Value
	order   []string
	index   []value.Value
	length  int
}

// ColumnData names one input column for New. Data is a *series.Series, a
// []value.Value, a []interface{} of scalars, or a typed slice ([]int,
// []int64, []float64, []string, []bool).
type ColumnData struct {
	Name string
	Data interface{}
}

// Col is shorthand for a ColumnData literal.
func Col(name string, data interface{}) ColumnData {
	return ColumnData{Name: name, Data: data}
}

func empty() *DataFrame {
	return &DataFrame{columns: make(map[string][]value.Value)}
}

// New builds a table from ordered columns. All columns must have the same
// length, else a shape error; a repeated name is a value error.
func New(cols ...ColumnData) (*DataFrame, error) {
	df := empty()
	for i, c := range cols {
		vals, isSeq, err := sequence(c.Data)
		if err != nil {
			return nil, dferrors.Wrap(err, dferrors.ErrorTypeTypeMismatch, "invalid column data").
				WithDetail("column", c.Name)
		}
		if !isSeq {
			return nil, dferrors.Newf(dferrors.ErrorTypeTypeMismatch,
				"column %q must be a sequence, got scalar", c.Name)
		}
		if _, dup := df.columns[c.Name]; dup {
			return nil, dferrors.Newf(dferrors.ErrorTypeValue, "duplicate column name %q", c.Name)
		}
		if i == 0 {
			df.length = len(vals)
		} else if len(vals) != df.length {
			return nil, dferrors.New(dferrors.ErrorTypeShape, "all arrays must be of the same length").
				WithDetail("column", c.Name).
				WithDetail("expected", df.length).
				WithDetail("actual", len(vals))
		}
		df.columns[c.Name] = vals
		df.order = append(df.order, c.Name)
	}
	df.index = series.RangeIndex(df.length)
	return df, nil
}

// Must panics if err is non-nil and otherwise returns df.
func Must(df *DataFrame, err error) *DataFrame {
	if err != nil {
		panic(err)
	}
	return df
}

// FromMap builds a table from a name to sequence mapping. Go maps carry no
// order, so columns are laid out by ascending name.
func FromMap(data map[string]interface{}) (*DataFrame, error) {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([]ColumnData, len(names))
	for i, name := range names {
		cols[i] = Col(name, data[name])
	}
	return New(cols...)
}

// FromRecords builds a table from ordered records. The schema is the union
// of record keys in first-seen order; a key missing from a record is null.
// Zero records yield an empty table.
func FromRecords(records []*Record) (*DataFrame, error) {
	start := time.Now()
	df := empty()
	for i, r := range records {
		if r == nil {
			err := dferrors.Newf(dferrors.ErrorTypeTypeMismatch, "record %d is nil", i)
			metrics.Observe("from_records", start, 0, err)
			return nil, err
		}
		for _, name := range r.names {
			if _, ok := df.columns[name]; !ok {
				df.columns[name] = make([]value.Value, len(records))
				df.order = append(df.order, name)
			}
		}
	}
	for i, r := range records {
		for name, v := range r.values {
			df.columns[name][i] = v
		}
	}
	df.length = len(records)
	df.index = series.RangeIndex(df.length)
	metrics.Observe("from_records", start, df.length, nil)
	return df, nil
}

// FromMaps builds a table from plain maps. Keys of each map are visited in
// ascending order, so the schema is the first-seen union under that order.
// Values must be nil or Go scalars.
func FromMaps(rows []map[string]interface{}) (*DataFrame, error) {
	records := make([]*Record, len(rows))
	for i, row := range rows {
		r, err := RecordFromMap(row)
		if err != nil {
			return nil, dferrors.Wrap(err, dferrors.ErrorTypeTypeMismatch, "invalid record").
				WithDetail("record", i)
		}
		records[i] = r
	}
	return FromRecords(records)
}

// FromAny dispatches over every accepted input shape: a column mapping, a
// list of ColumnData, a list of records or a list of maps. Anything else is
// a type mismatch.
func FromAny(data interface{}) (*DataFrame, error) {
	switch d := data.(type) {
	case nil:
		return empty(), nil
	case *DataFrame:
		return d.Copy(), nil
	case map[string]interface{}:
		return FromMap(d)
	case map[string][]value.Value:
		m := make(map[string]interface{}, len(d))
		for k, v := range d {
			m[k] = v
		}
		return FromMap(m)
	case []ColumnData:
		return New(d...)
	case []*Record:
		return FromRecords(d)
	case []map[string]interface{}:
		return FromMaps(d)
	case []interface{}:
		rows := make([]map[string]interface{}, len(d))
		for i, x := range d {
			m, ok := x.(map[string]interface{})
			if !ok {
				return nil, dferrors.Newf(dferrors.ErrorTypeTypeMismatch,
					"record %d is %T, not a mapping", i, x)
			}
			rows[i] = m
		}
		return FromMaps(rows)
	default:
		return nil, dferrors.Newf(dferrors.ErrorTypeTypeMismatch,
			"data must be a mapping of columns or a sequence of records, got %T", data)
	}
}

// sequence converts column input into an owned value slice. isSeq is false
// when data is a single scalar, returned as a one-element slice.
func sequence(data interface{}) (vals []value.Value, isSeq bool, err error) {
	switch d := data.(type) {
	case *series.Series:
		return d.Values(), true, nil
	case []value.Value:
		out := make([]value.Value, len(d))
		copy(out, d)
		return out, true, nil
	case []interface{}:
		out, err := value.Values(d...)
		return out, true, err
	case []int:
		out := make([]value.Value, len(d))
		for i, x := range d {
			out[i] = value.Int(int64(x))
		}
		return out, true, nil
	case []int64:
		out := make([]value.Value, len(d))
		for i, x := range d {
			out[i] = value.Int(x)
		}
		return out, true, nil
	case []float64:
		out := make([]value.Value, len(d))
		for i, x := range d {
			out[i] = value.Float(x)
		}
		return out, true, nil
	case []string:
		out := make([]value.Value, len(d))
		for i, x := range d {
			out[i] = value.Text(x)
		}
		return out, true, nil
	case []bool:
		out := make([]value.Value, len(d))
		for i, x := range d {
			out[i] = value.Bool(x)
		}
		return out, true, nil
	default:
		v, err := value.Of(data)
		if err != nil {
			return nil, false, err
		}
		return []value.Value{v}, false, nil
	}
}

// build assembles a table from already-owned buffers. Callers guarantee
// every buffer has length n.
func build(order []string, cols map[string][]value.Value, index []value.Value, n int) *DataFrame {
	if index == nil {
		index = series.RangeIndex(n)
	}
	return &DataFrame{columns: cols, order: order, index: index, length: n}
}

// Columns returns the column names in order.
func (df *DataFrame) Columns() []string {
	out := make([]string, len(df.order))
	copy(out, df.order)
	return out
}

// Len returns the number of rows.
func (df *DataFrame) Len() int { return df.length }

// Shape returns (rows, columns). A table without columns is (0, 0).
func (df *DataFrame) Shape() (int, int) {
	if len(df.order) == 0 {
		return 0, 0
	}
	return df.length, len(df.order)
}

// Has reports whether a column exists.
func (df *DataFrame) Has(name string) bool {
	_, ok := df.columns[name]
	return ok
}

// Index returns a copy of the row labels.
func (df *DataFrame) Index() []value.Value {
	out := make([]value.Value, len(df.index))
	copy(out, df.index)
	return out
}

// Column returns a copy of the named column as a Series carrying the shared
// index. A missing name is a key error.
func (df *DataFrame) Column(name string) (*series.Series, error) {
	vals, ok := df.columns[name]
	if !ok {
		return nil, df.missing(name)
	}
	return series.New(name, vals, series.WithIndex(df.index))
}

// MustColumn is Column that panics on a missing name.
func (df *DataFrame) MustColumn(name string) *series.Series {
	return series.Must(df.Column(name))
}

func (df *DataFrame) missing(name string) *dferrors.Error {
	return dferrors.Newf(dferrors.ErrorTypeKey, "column '%s' not found", name).
		WithDetail("column", name).
		WithDetail("available", df.Columns())
}

// Dtypes reports the kind of the first non-null value of each column, in
// column order. All-null columns report KindNull.
func (df *DataFrame) Dtypes() []value.Kind {
	out := make([]value.Kind, len(df.order))
	for i, name := range df.order {
		out[i] = firstKind(df.columns[name])
	}
	return out
}

func firstKind(vals []value.Value) value.Kind {
	for _, v := range vals {
		if !v.IsNull() {
			return v.Kind()
		}
	}
	return value.KindNull
}

// Copy returns a deep copy.
func (df *DataFrame) Copy() *DataFrame {
	cols := make(map[string][]value.Value, len(df.columns))
	for name, vals := range df.columns {
		cols[name] = cloneValues(vals)
	}
	order := make([]string, len(df.order))
	copy(order, df.order)
	return build(order, cols, cloneValues(df.index), df.length)
}

func cloneValues(vs []value.Value) []value.Value {
	out := make([]value.Value, len(vs))
	copy(out, vs)
	return out
}

// take copies the given row positions, index labels included, into a new
// table. Positions must be in range.
func (df *DataFrame) take(positions []int) *DataFrame {
	cols := make(map[string][]value.Value, len(df.columns))
	for _, name := range df.order {
		src := df.columns[name]
		dst := make([]value.Value, len(positions))
		for i, p := range positions {
			dst[i] = src[p]
		}
		cols[name] = dst
	}
	idx := make([]value.Value, len(positions))
	for i, p := range positions {
		idx[i] = df.index[p]
	}
	order := make([]string, len(df.order))
	copy(order, df.order)
	return build(order, cols, idx, len(positions))
}

// Head returns the first n rows.
func (df *DataFrame) Head(n int) *DataFrame {
	return df.ILoc().Slice(0, min(max(n, 0), df.length))
}

// Tail returns the last n rows.
func (df *DataFrame) Tail(n int) *DataFrame {
	n = min(max(n, 0), df.length)
	return df.ILoc().Slice(df.length-n, df.length)
}

// SetIndex returns a copy using labels as the row index. The label count
// must equal the row count.
func (df *DataFrame) SetIndex(labels []value.Value) (*DataFrame, error) {
	if len(labels) != df.length {
		return nil, dferrors.Newf(dferrors.ErrorTypeShape,
			"length of index (%d) does not match length of table (%d)", len(labels), df.length)
	}
	out := df.Copy()
	out.index = cloneValues(labels)
	return out, nil
}

// SetIndexColumn moves a column into the index.
func (df *DataFrame) SetIndexColumn(name string) (*DataFrame, error) {
	vals, ok := df.columns[name]
	if !ok {
		return nil, df.missing(name)
	}
	out, err := df.Drop(name)
	if err != nil {
		return nil, err
	}
	out.index = cloneValues(vals)
	return out, nil
}

// ResetIndex replaces the index with 0..n-1. When keep is non-empty, the
// old labels are inserted as a leading column of that name.
func (df *DataFrame) ResetIndex(keep string) (*DataFrame, error) {
	out := df.Copy()
	if keep != "" {
		if out.Has(keep) {
			return nil, dferrors.Newf(dferrors.ErrorTypeValue, "cannot insert %q, already exists", keep)
		}
		out.columns[keep] = out.index
		out.order = append([]string{keep}, out.order...)
	}
	out.index = series.RangeIndex(out.length)
	return out, nil
}

// Equal reports whether both tables have the same columns in the same
// order, the same index and the same values. Nulls compare equal to nulls
// here.
func (df *DataFrame) Equal(other *DataFrame) bool {
	if df.length != other.length || len(df.order) != len(other.order) {
		return false
	}
	for i, name := range df.order {
		if other.order[i] != name || !sameValues(df.columns[name], other.columns[name]) {
			return false
		}
	}
	return sameValues(df.index, other.index)
}

func sameValues(a, b []value.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
