package dataframe

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/nash-dir/lesserpandas/pkg/logger"
	"github.com/nash-dir/lesserpandas/pkg/metrics"
	"github.com/nash-dir/lesserpandas/pkg/series"
	stringpool "github.com/nash-dir/lesserpandas/pkg/strings"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

// GroupBy buckets the rows of a table by the values of one or more key
// columns. Groups are reported in key order: each key position compares by
// value with nulls after every non-null value.
type GroupBy struct {
	df      *DataFrame
	by      []string
	asIndex bool
	table   *keyTable
	sorted  []int
}

// Aggregation requests one reducer over one column.
type Aggregation struct {
	Column  string
	Reducer string
}

// Agg is shorthand for an Aggregation literal.
func Agg(column, reducer string) Aggregation {
	return Aggregation{Column: column, Reducer: reducer}
}

// GroupBy groups rows by the named key columns. At least one key is
// required and every key must exist.
func (df *DataFrame) GroupBy(by ...string) (*GroupBy, error) {
	if len(by) == 0 {
		return nil, dferrors.New(dferrors.ErrorTypeValue, "group key must name at least one column")
	}
	keys := make([][]value.Value, len(by))
	for k, col := range by {
		vals, ok := df.columns[col]
		if !ok {
			return nil, df.missing(col)
		}
		keys[k] = vals
	}

	table := newKeyTable(keys)
	for r := 0; r < df.length; r++ {
		table.add(r)
	}

	sorted := make([]int, len(table.groups))
	for i := range sorted {
		sorted[i] = i
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := table.groups[sorted[i]][0], table.groups[sorted[j]][0]
		for _, col := range keys {
			if c := value.Order(col[a], col[b]); c != 0 {
				return c < 0
			}
		}
		return false
	})

	byCopy := make([]string, len(by))
	copy(byCopy, by)
	return &GroupBy{df: df, by: byCopy, table: table, sorted: sorted}, nil
}

// WithIndex returns a grouping whose results use the group keys as the row
// index instead of leading columns. It only applies to single-column keys;
// multi-column keys are always emitted as columns.
func (g *GroupBy) WithIndex() *GroupBy {
	out := *g
	out.asIndex = true
	return &out
}

// NGroups returns the number of distinct keys.
func (g *GroupBy) NGroups() int { return len(g.sorted) }

// Keys returns the key tuples in group order.
func (g *GroupBy) Keys() [][]value.Value {
	out := make([][]value.Value, len(g.sorted))
	for i, gid := range g.sorted {
		out[i] = g.table.key(gid)
	}
	return out
}

// Group returns the rows of the group whose key equals key, with their
// original index labels. An unknown key is a key error.
func (g *GroupBy) Group(key ...interface{}) (*DataFrame, error) {
	if len(key) != len(g.by) {
		return nil, dferrors.Newf(dferrors.ErrorTypeValue,
			"group key has %d parts, expected %d", len(key), len(g.by))
	}
	probe := make([][]value.Value, len(key))
	for k, x := range key {
		v, err := value.Of(x)
		if err != nil {
			return nil, err
		}
		probe[k] = []value.Value{v}
	}
	gid, ok := g.table.lookup(probe, 0)
	if !ok {
		return nil, dferrors.New(dferrors.ErrorTypeKey, "group not found").
			WithDetail("key", key)
	}
	return g.df.take(g.table.groups[gid]), nil
}

// AggMap applies a column to reducer mapping. Go maps are unordered, so
// the output columns follow ascending column name.
func (g *GroupBy) AggMap(spec map[string]string) (*DataFrame, error) {
	cols := make([]string, 0, len(spec))
	for col := range spec {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	aggs := make([]Aggregation, len(cols))
	for i, col := range cols {
		aggs[i] = Agg(col, spec[col])
	}
	return g.Agg(aggs...)
}

// Agg reduces each requested column per group. Reducers skip nulls; sum,
// mean, min and max of a group with no non-null values are null and count
// is 0. A column requested with several reducers, or sharing its name with
// an emitted key column, is named <column>_<reducer>.
func (g *GroupBy) Agg(aggs ...Aggregation) (out *DataFrame, err error) {
	start := time.Now()
	defer func() {
		metrics.Observe("groupby", start, rowCount(out), err)
	}()

	fns := make([]series.ReducerFunc, len(aggs))
	uses := make(map[string]int, len(aggs))
	for i, a := range aggs {
		if !g.df.Has(a.Column) {
			return nil, g.df.missing(a.Column)
		}
		fn, err := series.LookupReducer(a.Reducer)
		if err != nil {
			return nil, err
		}
		fns[i] = fn
		uses[a.Column]++
	}

	indexKeys := g.asIndex && len(g.by) == 1
	keyCols := make(map[string]struct{}, len(g.by))
	if !indexKeys {
		for _, col := range g.by {
			keyCols[col] = struct{}{}
		}
	}

	n := len(g.sorted)
	cols := make(map[string][]value.Value)
	var order []string

	keyVals := make([][]value.Value, len(g.by))
	for k := range g.by {
		keyVals[k] = make([]value.Value, n)
	}
	for i, gid := range g.sorted {
		for k, v := range g.table.key(gid) {
			keyVals[k][i] = v
		}
	}
	if !indexKeys {
		for k, col := range g.by {
			cols[col] = keyVals[k]
			order = append(order, col)
		}
	}

	buf := make([]value.Value, 0, 16)
	for i, a := range aggs {
		name := a.Column
		_, clashesWithKey := keyCols[name]
		if uses[name] > 1 || clashesWithKey {
			name = stringpool.Concat(a.Column, "_", a.Reducer)
		}
		if _, dup := cols[name]; dup {
			return nil, dferrors.Newf(dferrors.ErrorTypeValue, "aggregation produces duplicate column %q", name)
		}

		src := g.df.columns[a.Column]
		dst := make([]value.Value, n)
		for j, gid := range g.sorted {
			buf = buf[:0]
			for _, r := range g.table.groups[gid] {
				buf = append(buf, src[r])
			}
			v, err := fns[i](buf)
			if err != nil {
				return nil, dferrors.Wrap(err, dferrors.ErrorTypeTypeMismatch, "aggregation failed").
					WithDetail("column", a.Column).
					WithDetail("reducer", a.Reducer)
			}
			dst[j] = v
		}
		cols[name] = dst
		order = append(order, name)
	}

	var index []value.Value
	if indexKeys {
		index = keyVals[0]
	}

	logger.Debug("groupby aggregate complete",
		zap.Strings("by", g.by),
		zap.Int("groups", n),
		zap.Int("aggregations", len(aggs)))

	return build(order, cols, index, n), nil
}

// numericColumns lists non-key columns whose first non-null value is a number.
func (g *GroupBy) numericColumns() []string {
	keys := make(map[string]struct{}, len(g.by))
	for _, col := range g.by {
		keys[col] = struct{}{}
	}
	var out []string
	for _, col := range g.df.order {
		if _, isKey := keys[col]; isKey {
			continue
		}
		if k := firstKind(g.df.columns[col]); k == value.KindInt || k == value.KindFloat {
			out = append(out, col)
		}
	}
	return out
}

func (g *GroupBy) reduceNumeric(reducer string) (*DataFrame, error) {
	cols := g.numericColumns()
	aggs := make([]Aggregation, len(cols))
	for i, col := range cols {
		aggs[i] = Agg(col, reducer)
	}
	return g.Agg(aggs...)
}

// Sum sums every numeric non-key column per group.
func (g *GroupBy) Sum() (*DataFrame, error) { return g.reduceNumeric(series.ReduceSum) }

// Mean averages every numeric non-key column per group.
func (g *GroupBy) Mean() (*DataFrame, error) { return g.reduceNumeric(series.ReduceMean) }

// Count counts non-null values of every numeric non-key column per group.
func (g *GroupBy) Count() (*DataFrame, error) { return g.reduceNumeric(series.ReduceCount) }

// Min takes the minimum of every numeric non-key column per group.
func (g *GroupBy) Min() (*DataFrame, error) { return g.reduceNumeric(series.ReduceMin) }

// Max takes the maximum of every numeric non-key column per group.
func (g *GroupBy) Max() (*DataFrame, error) { return g.reduceNumeric(series.ReduceMax) }
