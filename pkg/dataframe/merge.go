package dataframe

import (
	"time"

	"go.uber.org/zap"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/nash-dir/lesserpandas/pkg/logger"
	"github.com/nash-dir/lesserpandas/pkg/metrics"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

// JoinType selects which unmatched rows a merge keeps.
type JoinType string

const (
	// Inner keeps only matched row pairs.
	Inner JoinType = "inner"
	// Left also keeps unmatched left rows, with right-only columns null.
	Left JoinType = "left"
	// Right also keeps unmatched right rows, appended after the matches.
	Right JoinType = "right"
	// Outer keeps unmatched rows from both sides.
	Outer JoinType = "outer"
)

const (
	suffixLeft  = "_x"
	suffixRight = "_y"
)

// ParseJoinType validates a join mode name.
func ParseJoinType(s string) (JoinType, error) {
	switch jt := JoinType(s); jt {
	case Inner, Left, Right, Outer:
		return jt, nil
	default:
		return "", dferrors.Newf(dferrors.ErrorTypeValue,
			"merge type %q not supported, use inner, left, right or outer", s).
			WithDetail("how", s)
	}
}

// joinColumn describes one output column of a merge.
type joinColumn struct {
	name     string
	fromLeft bool
	source   string
	isKey    bool
}

// Merge joins df with right on the named key columns. See the package
// function Merge.
func (df *DataFrame) Merge(right *DataFrame, how JoinType, on ...string) (*DataFrame, error) {
	return Merge(df, right, how, on...)
}

// Merge hash-joins left and right on the key columns in on.
//
// The right table is indexed by key tuple, then probed once per left row in
// left order; a left row fans out once per matching right row. Right and
// outer joins append the right rows never matched, in right order, with
// left-only columns null except the key columns, which take the right row's
// key. Key columns appear once. Other columns present on both sides are
// suffixed _x (left) and _y (right). The result has a fresh range index.
func Merge(left, right *DataFrame, how JoinType, on ...string) (out *DataFrame, err error) {
	start := time.Now()
	defer func() {
		metrics.Observe("merge", start, rowCount(out), err)
	}()

	if len(on) == 0 {
		return nil, dferrors.New(dferrors.ErrorTypeValue, "merge requires at least one key column")
	}
	for _, col := range on {
		if !left.Has(col) {
			return nil, dferrors.Newf(dferrors.ErrorTypeKey, "column '%s' not found in left table", col).
				WithDetail("column", col)
		}
		if !right.Has(col) {
			return nil, dferrors.Newf(dferrors.ErrorTypeKey, "column '%s' not found in right table", col).
				WithDetail("column", col)
		}
	}
	if _, err := ParseJoinType(string(how)); err != nil {
		return nil, err
	}

	layout, err := joinLayout(left, right, on)
	if err != nil {
		return nil, err
	}

	rightKeys := make([][]value.Value, len(on))
	leftKeys := make([][]value.Value, len(on))
	for k, col := range on {
		rightKeys[k] = right.columns[col]
		leftKeys[k] = left.columns[col]
	}
	table := newKeyTable(rightKeys)
	for r := 0; r < right.length; r++ {
		table.add(r)
	}

	// Row pairs; -1 marks the missing side.
	var lrows, rrows []int
	visited := make([]bool, right.length)
	for l := 0; l < left.length; l++ {
		g, ok := table.lookup(leftKeys, l)
		if !ok {
			if how == Left || how == Outer {
				lrows = append(lrows, l)
				rrows = append(rrows, -1)
			}
			continue
		}
		for _, r := range table.groups[g] {
			visited[r] = true
			lrows = append(lrows, l)
			rrows = append(rrows, r)
		}
	}
	if how == Right || how == Outer {
		for r := 0; r < right.length; r++ {
			if !visited[r] {
				lrows = append(lrows, -1)
				rrows = append(rrows, r)
			}
		}
	}

	n := len(lrows)
	cols := make(map[string][]value.Value, len(layout))
	order := make([]string, len(layout))
	for c, jc := range layout {
		dst := make([]value.Value, n)
		for i := 0; i < n; i++ {
			l, r := lrows[i], rrows[i]
			switch {
			case jc.fromLeft && l >= 0:
				dst[i] = left.columns[jc.source][l]
			case jc.fromLeft && jc.isKey:
				dst[i] = right.columns[jc.source][r]
			case !jc.fromLeft && r >= 0:
				dst[i] = right.columns[jc.source][r]
			}
		}
		cols[jc.name] = dst
		order[c] = jc.name
	}

	logger.Debug("merge complete",
		zap.String("how", string(how)),
		zap.Strings("on", on),
		zap.Int("left_rows", left.length),
		zap.Int("right_rows", right.length),
		zap.Int("result_rows", n))

	return build(order, cols, nil, n), nil
}

// joinLayout decides the output schema: left columns in order, then right
// columns in order, keys once, overlapping non-key names suffixed.
func joinLayout(left, right *DataFrame, on []string) ([]joinColumn, error) {
	keys := make(map[string]struct{}, len(on))
	for _, col := range on {
		keys[col] = struct{}{}
	}

	var layout []joinColumn
	for _, col := range left.order {
		jc := joinColumn{name: col, fromLeft: true, source: col}
		if _, ok := keys[col]; ok {
			jc.isKey = true
		} else if right.Has(col) {
			jc.name = col + suffixLeft
		}
		layout = append(layout, jc)
	}
	for _, col := range right.order {
		if _, ok := keys[col]; ok {
			continue
		}
		jc := joinColumn{name: col, source: col}
		if left.Has(col) {
			jc.name = col + suffixRight
		}
		layout = append(layout, jc)
	}

	seen := make(map[string]struct{}, len(layout))
	for _, jc := range layout {
		if _, dup := seen[jc.name]; dup {
			return nil, dferrors.Newf(dferrors.ErrorTypeValue,
				"merge produces duplicate column %q", jc.name).
				WithDetail("column", jc.name)
		}
		seen[jc.name] = struct{}{}
	}
	return layout, nil
}

func rowCount(df *DataFrame) int {
	if df == nil {
		return 0
	}
	return df.length
}
