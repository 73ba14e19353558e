package dataframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/nash-dir/lesserpandas/pkg/series"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

func categories(t *testing.T) *DataFrame {
	t.Helper()
	df, err := New(
		Col("category", []string{"A", "B", "A", "B", "A", "C"}),
		Col("value1", []int{1, 2, 3, 4, 5, 6}),
		Col("label", []string{"p", "q", "r", "s", "t", "u"}),
	)
	require.NoError(t, err)
	return df
}

func TestGroupBySum(t *testing.T) {
	g, err := categories(t).GroupBy("category")
	require.NoError(t, err)
	assert.Equal(t, 3, g.NGroups())

	out, err := g.Sum()
	require.NoError(t, err)
	assert.Equal(t, []string{"category", "value1"}, out.Columns())
	assert.Equal(t, vals("A", "B", "C"), colValues(t, out, "category"))
	assert.Equal(t, vals(9, 6, 6), colValues(t, out, "value1"))
	assert.Equal(t, vals(0, 1, 2), out.Index())
}

func TestGroupByReducers(t *testing.T) {
	g, err := categories(t).GroupBy("category")
	require.NoError(t, err)

	mean, err := g.Mean()
	require.NoError(t, err)
	assert.Equal(t, vals(3.0, 3.0, 6.0), colValues(t, mean, "value1"))

	count, err := g.Count()
	require.NoError(t, err)
	assert.Equal(t, vals(3, 2, 1), colValues(t, count, "value1"))

	lo, err := g.Min()
	require.NoError(t, err)
	assert.Equal(t, vals(1, 2, 6), colValues(t, lo, "value1"))

	hi, err := g.Max()
	require.NoError(t, err)
	assert.Equal(t, vals(5, 4, 6), colValues(t, hi, "value1"))
}

func TestGroupByAggNaming(t *testing.T) {
	g, err := categories(t).GroupBy("category")
	require.NoError(t, err)

	out, err := g.Agg(
		Agg("value1", series.ReduceSum),
		Agg("value1", series.ReduceMax),
		Agg("category", series.ReduceCount),
		Agg("label", series.ReduceMin),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"category", "value1_sum", "value1_max", "category_count", "label"}, out.Columns())
	assert.Equal(t, vals(3, 2, 1), colValues(t, out, "category_count"))
	assert.Equal(t, vals("p", "q", "u"), colValues(t, out, "label"))

	out, err = g.AggMap(map[string]string{"value1": "mean", "label": "max"})
	require.NoError(t, err)
	assert.Equal(t, []string{"category", "label", "value1"}, out.Columns())
	assert.Equal(t, vals("t", "s", "u"), colValues(t, out, "label"))
}

func TestGroupByWithIndex(t *testing.T) {
	g, err := categories(t).GroupBy("category")
	require.NoError(t, err)
	out, err := g.WithIndex().Sum()
	require.NoError(t, err)
	assert.Equal(t, []string{"value1"}, out.Columns())
	assert.Equal(t, vals("A", "B", "C"), out.Index())
}

func TestGroupByNullKeysSortLast(t *testing.T) {
	df := Must(New(
		Col("k", []interface{}{nil, "b", "a", nil}),
		Col("v", []interface{}{1, 2, 3, nil}),
		Col("w", []interface{}{nil, nil, 1.5, nil}),
	))
	g, err := df.GroupBy("k")
	require.NoError(t, err)
	assert.Equal(t, [][]value.Value{vals("a"), vals("b"), vals(nil)}, g.Keys())

	out, err := g.Agg(Agg("v", "sum"), Agg("w", "count"))
	require.NoError(t, err)
	assert.Equal(t, vals(3, 2, 1), colValues(t, out, "v"))
	assert.Equal(t, vals(1, 0, 0), colValues(t, out, "w"))

	out, err = g.Agg(Agg("w", "sum"))
	require.NoError(t, err)
	assert.Equal(t, vals(1.5, nil, nil), colValues(t, out, "w"))
}

func TestGroupByMixedKindKeys(t *testing.T) {
	df := Must(New(
		Col("k", []interface{}{"x", 2, true, 1.0, 1}),
		Col("v", []int{1, 2, 3, 4, 5}),
	))
	g, err := df.GroupBy("k")
	require.NoError(t, err)
	out, err := g.Sum()
	require.NoError(t, err)
	assert.Equal(t, vals(1.0, 2, true, "x"), colValues(t, out, "k"))
	assert.Equal(t, vals(9, 2, 3, 1), colValues(t, out, "v"))
}

func TestGroupByMultipleKeys(t *testing.T) {
	df := Must(New(
		Col("a", []string{"x", "y", "x", "x"}),
		Col("b", []int{2, 1, 1, 2}),
		Col("v", []int{10, 20, 30, 40}),
	))
	g, err := df.GroupBy("a", "b")
	require.NoError(t, err)

	out, err := g.WithIndex().Sum()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "v"}, out.Columns())
	assert.Equal(t, vals("x", "x", "y"), colValues(t, out, "a"))
	assert.Equal(t, vals(1, 2, 1), colValues(t, out, "b"))
	assert.Equal(t, vals(30, 50, 20), colValues(t, out, "v"))

	grp, err := g.Group("x", 2)
	require.NoError(t, err)
	assert.Equal(t, vals(0, 3), grp.Index())

	_, err = g.Group("x")
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeValue))
	_, err = g.Group("z", 1)
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeKey))
}

func TestGroupByErrors(t *testing.T) {
	df := categories(t)

	_, err := df.GroupBy()
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeValue))

	_, err = df.GroupBy("missing")
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeKey))

	g, err := df.GroupBy("category")
	require.NoError(t, err)

	_, err = g.Agg(Agg("value1", "median"))
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeValue))

	_, err = g.Agg(Agg("missing", "sum"))
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeKey))

	_, err = g.Agg(Agg("label", "sum"))
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeTypeMismatch))
}
