package dataframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
)

func joinSides(t *testing.T) (*DataFrame, *DataFrame) {
	t.Helper()
	left, err := New(
		Col("id", []int{1, 2, 3, 4}),
		Col("common", []int{100, 200, 300, 400}),
	)
	require.NoError(t, err)
	right, err := New(
		Col("id", []int{1, 2, 2, 5}),
		Col("common", []int{101, 201, 202, 501}),
	)
	require.NoError(t, err)
	return left, right
}

func TestMergeInner(t *testing.T) {
	left, right := joinSides(t)
	out, err := Merge(left, right, Inner, "id")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "common_x", "common_y"}, out.Columns())
	assert.Equal(t, vals(1, 2, 2), colValues(t, out, "id"))
	assert.Equal(t, vals(100, 200, 200), colValues(t, out, "common_x"))
	assert.Equal(t, vals(101, 201, 202), colValues(t, out, "common_y"))
	assert.Equal(t, vals(0, 1, 2), out.Index())
	assertShapeInvariant(t, out)
}

func TestMergeModes(t *testing.T) {
	left, right := joinSides(t)
	tests := []struct {
		how     JoinType
		ids     []interface{}
		commonX []interface{}
		commonY []interface{}
	}{
		{Left, []interface{}{1, 2, 2, 3, 4}, []interface{}{100, 200, 200, 300, 400}, []interface{}{101, 201, 202, nil, nil}},
		{Right, []interface{}{1, 2, 2, 5}, []interface{}{100, 200, 200, nil}, []interface{}{101, 201, 202, 501}},
		{Outer, []interface{}{1, 2, 2, 3, 4, 5}, []interface{}{100, 200, 200, 300, 400, nil}, []interface{}{101, 201, 202, nil, nil, 501}},
	}

	for _, tt := range tests {
		t.Run(string(tt.how), func(t *testing.T) {
			out, err := left.Merge(right, tt.how, "id")
			require.NoError(t, err)
			assert.Equal(t, vals(tt.ids...), colValues(t, out, "id"))
			assert.Equal(t, vals(tt.commonX...), colValues(t, out, "common_x"))
			assert.Equal(t, vals(tt.commonY...), colValues(t, out, "common_y"))
			assertShapeInvariant(t, out)
		})
	}
}

func TestMergeMultipleKeys(t *testing.T) {
	left := Must(New(
		Col("a", []string{"x", "x", "y"}),
		Col("b", []int{1, 2, 1}),
		Col("lv", []string{"l0", "l1", "l2"}),
	))
	right := Must(New(
		Col("b", []float64{2, 1}),
		Col("a", []string{"x", "y"}),
		Col("rv", []string{"r0", "r1"}),
	))

	out, err := Merge(left, right, Inner, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "lv", "rv"}, out.Columns())
	assert.Equal(t, vals("l1", "l2"), colValues(t, out, "lv"))
	assert.Equal(t, vals("r0", "r1"), colValues(t, out, "rv"))
}

func TestMergeDisjointColumnsKeepNames(t *testing.T) {
	left := Must(New(Col("id", []int{1}), Col("l", []int{10})))
	right := Must(New(Col("id", []int{1}), Col("r", []int{20})))
	out, err := Merge(left, right, Inner, "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "l", "r"}, out.Columns())
}

func TestMergeErrors(t *testing.T) {
	left, right := joinSides(t)

	_, err := Merge(left, right, Inner)
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeValue))

	_, err = Merge(left, right, Inner, "missing")
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeKey))

	_, err = Merge(left, right, JoinType("cross"), "id")
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeValue))

	clash := Must(New(Col("id", []int{1}), Col("common", []int{1}), Col("common_x", []int{1})))
	_, err = Merge(clash, right, Inner, "id")
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeValue))
}

func TestParseJoinType(t *testing.T) {
	jt, err := ParseJoinType("outer")
	require.NoError(t, err)
	assert.Equal(t, Outer, jt)

	_, err = ParseJoinType("semi")
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeValue))
}
