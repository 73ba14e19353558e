package dataframe

import (
	"sort"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	stringpool "github.com/nash-dir/lesserpandas/pkg/strings"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

// Record is one flat row: field names in insertion order mapped to values.
// It is the ingestion and egress shape of a DataFrame.
type Record struct {
	names  []string
	values map[string]value.Value
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]value.Value)}
}

// RecordFromMap converts a plain map, visiting keys in ascending order.
func RecordFromMap(m map[string]interface{}) (*Record, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := &Record{names: make([]string, 0, len(m)), values: make(map[string]value.Value, len(m))}
	for _, k := range keys {
		v, err := value.Of(m[k])
		if err != nil {
			return nil, dferrors.Wrap(err, dferrors.ErrorTypeTypeMismatch, "invalid field").
				WithDetail("field", k)
		}
		r.Set(k, v)
	}
	return r, nil
}

// Set stores v under name. A new name is appended to the field order; an
// existing one keeps its position.
func (r *Record) Set(name string, v value.Value) *Record {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = v
	return r
}

// Get returns the value for name and whether it is present.
func (r *Record) Get(name string) (value.Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Value returns the value for name, or null if absent.
func (r *Record) Value(name string) value.Value {
	return r.values[name]
}

// Names returns the field names in order.
func (r *Record) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Record) Len() int { return len(r.names) }

// ToMap converts the record to a plain map of Go scalars, with nil for null.
func (r *Record) ToMap() map[string]interface{} {
	m := make(map[string]interface{}, len(r.names))
	for _, name := range r.names {
		m[name] = r.values[name].Interface()
	}
	return m
}

func (r *Record) String() string {
	return stringpool.BuildString(func(b *stringpool.Builder) {
		_ = b.WriteByte('{')
		for i, name := range r.names {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(r.values[name].String())
		}
		_ = b.WriteByte('}')
	})
}

// row builds the record for position i.
func (df *DataFrame) row(i int) *Record {
	r := &Record{names: make([]string, len(df.order)), values: make(map[string]value.Value, len(df.order))}
	copy(r.names, df.order)
	for _, name := range df.order {
		r.values[name] = df.columns[name][i]
	}
	return r
}

// ToRecords returns every row, in index order, as a Record covering all columns.
func (df *DataFrame) ToRecords() []*Record {
	out := make([]*Record, df.length)
	for i := range out {
		out[i] = df.row(i)
	}
	return out
}

// ToMaps returns every row as a plain map of Go scalars.
func (df *DataFrame) ToMaps() []map[string]interface{} {
	out := make([]map[string]interface{}, df.length)
	for i := range out {
		m := make(map[string]interface{}, len(df.order))
		for _, name := range df.order {
			m[name] = df.columns[name][i].Interface()
		}
		out[i] = m
	}
	return out
}

// Iterator walks rows sequentially without materializing them all.
type Iterator struct {
	df  *DataFrame
	pos int
}

// Rows returns an iterator positioned before the first row.
func (df *DataFrame) Rows() *Iterator {
	return &Iterator{df: df, pos: -1}
}

// Next advances to the next row
func (it *Iterator) Next() bool {
	it.pos++
	return it.pos < it.df.length
}

// Label returns the index label of the current row.
func (it *Iterator) Label() value.Value {
	return it.df.index[it.pos]
}

// Record returns the current row.
func (it *Iterator) Record() *Record {
	return it.df.row(it.pos)
}

// Values returns the current row's values in column order.
func (it *Iterator) Values() []value.Value {
	out := make([]value.Value, len(it.df.order))
	for i, name := range it.df.order {
		out[i] = it.df.columns[name][it.pos]
	}
	return out
}
