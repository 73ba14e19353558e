package dataframe

import (
	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

// ILocIndexer addresses rows by integer position.
type ILocIndexer struct {
	df *DataFrame
}

// ILoc returns the positional indexer.
func (df *DataFrame) ILoc() *ILocIndexer {
	return &ILocIndexer{df: df}
}

func (ix *ILocIndexer) resolve(i int) (int, error) {
	pos := i
	if pos < 0 {
		pos += ix.df.length
	}
	if pos < 0 || pos >= ix.df.length {
		return 0, dferrors.Newf(dferrors.ErrorTypeIndexOutOfRange,
			"index %d out of range [0, %d)", i, ix.df.length)
	}
	return pos, nil
}

// Row returns the row at position i as a record. Negative positions count
// from the end.
func (ix *ILocIndexer) Row(i int) (*Record, error) {
	pos, err := ix.resolve(i)
	if err != nil {
		return nil, err
	}
	return ix.df.row(pos), nil
}

// Take returns the rows at the given positions, in the given order, with
// their index labels. Negative positions count from the end.
func (ix *ILocIndexer) Take(positions ...int) (*DataFrame, error) {
	resolved := make([]int, len(positions))
	for i, p := range positions {
		pos, err := ix.resolve(p)
		if err != nil {
			return nil, err
		}
		resolved[i] = pos
	}
	return ix.df.take(resolved), nil
}

// Slice returns rows [start, stop). Negative bounds count from the end and
// out-of-range bounds are clamped, so Slice never fails.
func (ix *ILocIndexer) Slice(start, stop int) *DataFrame {
	out, _ := ix.SliceStep(start, stop, 1)
	return out
}

// SliceStep returns every step-th row from start towards stop, exclusive.
// A negative step walks backwards; to reach row 0 going backwards use
// stop = -Len()-1. A zero step is a value error.
func (ix *ILocIndexer) SliceStep(start, stop, step int) (*DataFrame, error) {
	positions, err := sliceIndices(ix.df.length, start, stop, step)
	if err != nil {
		return nil, err
	}
	return ix.df.take(positions), nil
}

// View returns rows [start, stop) without copying: the result's column
// buffers alias the receiver's. Writes through either table's values are
// visible in both; Set on the view replaces its column and breaks the alias.
func (ix *ILocIndexer) View(start, stop int) *DataFrame {
	n := ix.df.length
	start, stop = clampBound(start, n), clampBound(stop, n)
	if stop < start {
		stop = start
	}
	cols := make(map[string][]value.Value, len(ix.df.columns))
	for _, name := range ix.df.order {
		cols[name] = ix.df.columns[name][start:stop:stop]
	}
	order := make([]string, len(ix.df.order))
	copy(order, ix.df.order)
	return build(order, cols, ix.df.index[start:stop:stop], stop-start)
}

func clampBound(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
	}
	if i > n {
		return n
	}
	return i
}

// sliceIndices expands start:stop:step over n rows with the usual sequence
// slicing rules.
func sliceIndices(n, start, stop, step int) ([]int, error) {
	if step == 0 {
		return nil, dferrors.New(dferrors.ErrorTypeValue, "slice step cannot be zero")
	}
	lower, upper := 0, n
	if step < 0 {
		lower, upper = -1, n-1
	}
	norm := func(i int) int {
		if i < 0 {
			i += n
			if i < lower {
				return lower
			}
			return i
		}
		if i > upper {
			return upper
		}
		return i
	}
	start, stop = norm(start), norm(stop)

	var positions []int
	if step > 0 {
		for i := start; i < stop; i += step {
			positions = append(positions, i)
		}
	} else {
		for i := start; i > stop; i += step {
			positions = append(positions, i)
		}
	}
	return positions, nil
}

// LocIndexer addresses rows by index label. Lookups scan the index
// linearly; labels need not be unique.
type LocIndexer struct {
	df *DataFrame
}

// Loc returns the label indexer.
func (df *DataFrame) Loc() *LocIndexer {
	return &LocIndexer{df: df}
}

// LocResult holds the outcome of a single-label lookup: Row when exactly
// one row matched, Frame when several did.
type LocResult struct {
	Row   *Record
	Frame *DataFrame
}

// IsRow reports whether the lookup matched a single row.
func (r *LocResult) IsRow() bool { return r.Row != nil }

func label(x interface{}) (value.Value, error) {
	v, err := value.Of(x)
	if err != nil {
		return value.Null(), dferrors.Wrap(err, dferrors.ErrorTypeKey, "invalid label")
	}
	return v, nil
}

func (ix *LocIndexer) matches(l value.Value) []int {
	var positions []int
	for i, x := range ix.df.index {
		if value.Same(x, l) {
			positions = append(positions, i)
		}
	}
	return positions
}

func (ix *LocIndexer) first(l value.Value, what string) (int, error) {
	for i, x := range ix.df.index {
		if value.Same(x, l) {
			return i, nil
		}
	}
	return 0, dferrors.Newf(dferrors.ErrorTypeKey, "%s '%s' not found in index", what, l).
		WithDetail("label", l.Interface())
}

// Get resolves one label. No match is a key error, one match yields the
// row, several yield a sub-table of every match in original order.
func (ix *LocIndexer) Get(lbl interface{}) (*LocResult, error) {
	l, err := label(lbl)
	if err != nil {
		return nil, err
	}
	positions := ix.matches(l)
	switch len(positions) {
	case 0:
		return nil, dferrors.Newf(dferrors.ErrorTypeKey, "label '%s' not found in index", l).
			WithDetail("label", l.Interface())
	case 1:
		return &LocResult{Row: ix.df.row(positions[0])}, nil
	default:
		return &LocResult{Frame: ix.df.take(positions)}, nil
	}
}

// Labels resolves each label to its first matching row and returns those
// rows in the requested order. Any absent label is a key error.
func (ix *LocIndexer) Labels(labels ...interface{}) (*DataFrame, error) {
	positions := make([]int, len(labels))
	for i, x := range labels {
		l, err := label(x)
		if err != nil {
			return nil, err
		}
		pos, err := ix.first(l, "label")
		if err != nil {
			return nil, err
		}
		positions[i] = pos
	}
	return ix.df.take(positions), nil
}

// Mask keeps the rows where mask is true, like DataFrame.Filter.
func (ix *LocIndexer) Mask(mask []bool) (*DataFrame, error) {
	return ix.df.Filter(mask)
}

// Range returns the rows from the first occurrence of start through the
// first occurrence of stop, both inclusive. A nil bound is open.
func (ix *LocIndexer) Range(start, stop interface{}) (*DataFrame, error) {
	return ix.RangeStep(start, stop, 1)
}

// RangeStep is Range taking every step-th row.
func (ix *LocIndexer) RangeStep(start, stop interface{}, step int) (*DataFrame, error) {
	from, to := 0, ix.df.length
	if start != nil {
		l, err := label(start)
		if err != nil {
			return nil, err
		}
		if from, err = ix.first(l, "start label"); err != nil {
			return nil, err
		}
	}
	if stop != nil {
		l, err := label(stop)
		if err != nil {
			return nil, err
		}
		pos, err := ix.first(l, "stop label")
		if err != nil {
			return nil, err
		}
		to = pos + 1
	}
	return ix.df.ILoc().SliceStep(from, to, step)
}
