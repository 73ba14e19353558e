package dataframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
)

func TestConcat(t *testing.T) {
	a := Must(New(Col("A", []int{1}), Col("B", []int{2})))
	b := Must(New(Col("A", []int{3}), Col("C", []int{5})))

	out, err := Concat(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, out.Columns())
	assert.Equal(t, vals(1, 3), colValues(t, out, "A"))
	assert.Equal(t, vals(2, nil), colValues(t, out, "B"))
	assert.Equal(t, vals(nil, 5), colValues(t, out, "C"))
	assert.Equal(t, vals(0, 1), out.Index())
	assertShapeInvariant(t, out)
}

func TestConcatFreshIndex(t *testing.T) {
	a, err := Must(New(Col("x", []int{1, 2}))).SetIndex(vals("p", "q"))
	require.NoError(t, err)
	out, err := Concat(a, a)
	require.NoError(t, err)
	assert.Equal(t, vals(0, 1, 2, 3), out.Index())
	assert.Equal(t, vals(1, 2, 1, 2), colValues(t, out, "x"))
}

func TestConcatErrors(t *testing.T) {
	_, err := Concat()
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeValue))

	_, err = Concat(Must(New()), nil)
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeTypeMismatch))
}
