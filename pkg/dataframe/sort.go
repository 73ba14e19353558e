package dataframe

import (
	"sort"
	"time"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/nash-dir/lesserpandas/pkg/metrics"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

// NAPosition places nulls before or after the sorted values.
type NAPosition string

const (
	NAFirst NAPosition = "first"
	NALast  NAPosition = "last"
)

// ParseNAPosition validates a null placement. The empty string means last.
func ParseNAPosition(s string) (NAPosition, error) {
	switch p := NAPosition(s); p {
	case NAFirst, NALast:
		return p, nil
	case "":
		return NALast, nil
	default:
		return "", dferrors.Newf(dferrors.ErrorTypeValue, "invalid na_position %q, use first or last", s)
	}
}

// SortKey is one level of a multi-column sort.
type SortKey struct {
	Column     string
	Descending bool
	NAPosition NAPosition
}

// SortValues sorts rows by one column. Null rows are partitioned out and
// placed as one block before or after the others per naPosition, whatever
// the direction. The non-null rows are stably sorted by value; values that
// are not mutually comparable are a type mismatch. Index labels travel with
// their rows.
func (df *DataFrame) SortValues(by string, ascending bool, naPosition NAPosition) (out *DataFrame, err error) {
	start := time.Now()
	defer func() {
		metrics.Observe("sort", start, rowCount(out), err)
	}()

	vals, ok := df.columns[by]
	if !ok {
		return nil, df.missing(by)
	}
	pos, err := ParseNAPosition(string(naPosition))
	if err != nil {
		return nil, err
	}

	var nulls, valid []int
	for i, v := range vals {
		if v.IsNull() {
			nulls = append(nulls, i)
		} else {
			valid = append(valid, i)
		}
	}
	if err := checkComparable(vals, valid, by); err != nil {
		return nil, err
	}

	sort.SliceStable(valid, func(i, j int) bool {
		c, _ := value.Compare(vals[valid[i]], vals[valid[j]])
		if ascending {
			return c < 0
		}
		return c > 0
	})

	var positions []int
	if pos == NAFirst {
		positions = append(nulls, valid...)
	} else {
		positions = append(valid, nulls...)
	}
	return df.take(positions), nil
}

// SortBy sorts rows lexicographically by several keys. Each key places its
// own nulls per its NAPosition regardless of direction. The sort is stable.
func (df *DataFrame) SortBy(keys ...SortKey) (out *DataFrame, err error) {
	start := time.Now()
	defer func() {
		metrics.Observe("sort", start, rowCount(out), err)
	}()

	if len(keys) == 0 {
		return nil, dferrors.New(dferrors.ErrorTypeValue, "sort requires at least one key")
	}
	cols := make([][]value.Value, len(keys))
	nullsFirst := make([]bool, len(keys))
	all := make([]int, df.length)
	for i := range all {
		all[i] = i
	}
	for k, key := range keys {
		vals, ok := df.columns[key.Column]
		if !ok {
			return nil, df.missing(key.Column)
		}
		pos, err := ParseNAPosition(string(key.NAPosition))
		if err != nil {
			return nil, err
		}
		if err := checkComparable(vals, all, key.Column); err != nil {
			return nil, err
		}
		cols[k] = vals
		nullsFirst[k] = pos == NAFirst
	}

	positions := make([]int, df.length)
	copy(positions, all)
	sort.SliceStable(positions, func(i, j int) bool {
		a, b := positions[i], positions[j]
		for k, col := range cols {
			x, y := col[a], col[b]
			switch {
			case x.IsNull() && y.IsNull():
				continue
			case x.IsNull():
				return nullsFirst[k]
			case y.IsNull():
				return !nullsFirst[k]
			}
			c, _ := value.Compare(x, y)
			if c == 0 {
				continue
			}
			if keys[k].Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return df.take(positions), nil
}

// checkComparable checks that the non-null values at positions share one
// ordering family: numbers, text or bools.
func checkComparable(vals []value.Value, positions []int, column string) error {
	var first value.Value
	for _, p := range positions {
		v := vals[p]
		if v.IsNull() {
			continue
		}
		if first.IsNull() {
			first = v
			continue
		}
		if _, err := value.Compare(first, v); err != nil {
			return dferrors.Wrap(err, dferrors.ErrorTypeTypeMismatch, "sort values are not mutually comparable").
				WithDetail("column", column)
		}
	}
	return nil
}
