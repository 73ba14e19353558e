package dataframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
)

func TestSortValues(t *testing.T) {
	df := Must(New(Col("A", []interface{}{3, 1, nil, 2})))
	tests := []struct {
		name      string
		ascending bool
		na        NAPosition
		expected  []interface{}
		index     []interface{}
	}{
		{"ascending", true, NALast, []interface{}{1, 2, 3, nil}, []interface{}{1, 3, 0, 2}},
		{"descending", false, NALast, []interface{}{3, 2, 1, nil}, []interface{}{0, 3, 1, 2}},
		{"nulls first", true, NAFirst, []interface{}{nil, 1, 2, 3}, []interface{}{2, 1, 3, 0}},
		{"descending nulls first", false, NAFirst, []interface{}{nil, 3, 2, 1}, []interface{}{2, 0, 3, 1}},
		{"default placement", true, "", []interface{}{1, 2, 3, nil}, []interface{}{1, 3, 0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := df.SortValues("A", tt.ascending, tt.na)
			require.NoError(t, err)
			assert.Equal(t, vals(tt.expected...), colValues(t, out, "A"))
			assert.Equal(t, vals(tt.index...), out.Index())
		})
	}
}

func TestSortValuesIsStable(t *testing.T) {
	df := Must(New(
		Col("k", []int{2, 1, 2, 1}),
		Col("tag", []string{"a", "b", "c", "d"}),
	))
	out, err := df.SortValues("k", true, NALast)
	require.NoError(t, err)
	assert.Equal(t, vals("b", "d", "a", "c"), colValues(t, out, "tag"))

	out, err = df.SortValues("k", false, NALast)
	require.NoError(t, err)
	assert.Equal(t, vals("a", "c", "b", "d"), colValues(t, out, "tag"))
}

func TestSortValuesMixedNumbers(t *testing.T) {
	df := Must(New(Col("n", []interface{}{2.5, 1, 3})))
	out, err := df.SortValues("n", true, NALast)
	require.NoError(t, err)
	assert.Equal(t, vals(1, 2.5, 3), colValues(t, out, "n"))
}

func TestSortValuesErrors(t *testing.T) {
	df := Must(New(Col("A", []interface{}{1, "a", nil})))

	_, err := df.SortValues("A", true, NALast)
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeTypeMismatch))

	_, err = df.SortValues("missing", true, NALast)
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeKey))

	_, err = df.SortValues("A", true, NAPosition("middle"))
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeValue))
}

func TestSortBy(t *testing.T) {
	df := Must(New(
		Col("k1", []string{"b", "a", "b", "a"}),
		Col("k2", []interface{}{1, 2, 0, nil}),
	))

	out, err := df.SortBy(SortKey{Column: "k1"}, SortKey{Column: "k2", Descending: true})
	require.NoError(t, err)
	assert.Equal(t, vals(1, 3, 0, 2), out.Index())

	out, err = df.SortBy(SortKey{Column: "k1"}, SortKey{Column: "k2", NAPosition: NAFirst})
	require.NoError(t, err)
	assert.Equal(t, vals(3, 1, 2, 0), out.Index())

	_, err = df.SortBy()
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeValue))
}

func TestParseNAPosition(t *testing.T) {
	p, err := ParseNAPosition("first")
	require.NoError(t, err)
	assert.Equal(t, NAFirst, p)

	p, err = ParseNAPosition("")
	require.NoError(t, err)
	assert.Equal(t, NALast, p)
}
