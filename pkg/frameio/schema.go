package frameio

import (
	"math"

	"github.com/nash-dir/lesserpandas/pkg/value"
)

// columnType is the storage type a column gets in typed formats.
type columnType int

const (
	typeText columnType = iota
	typeInt
	typeFloat
	typeBool
)

// inferType picks the narrowest typed storage for a column. Ints mixed
// with floats widen to float; any other mix, and an all-null column, is
// stored as text.
func inferType(vals []value.Value) columnType {
	var ints, floats, bools, texts int
	for _, v := range vals {
		switch v.Kind() {
		case value.KindInt:
			ints++
		case value.KindFloat:
			floats++
		case value.KindBool:
			bools++
		case value.KindText:
			texts++
		}
	}
	switch {
	case texts > 0 || (bools > 0 && ints+floats > 0):
		return typeText
	case bools > 0:
		return typeBool
	case floats > 0:
		return typeFloat
	case ints > 0:
		return typeInt
	default:
		return typeText
	}
}

// plainFloat returns a JSON-safe payload for f: NaN and infinities have no
// JSON spelling and become null.
func plainFloat(f float64) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

// promoteMixedNumbers widens ints to floats in columns that hold both, so
// a column of "1" and "2.5" reads back as numbers of one kind.
func promoteMixedNumbers(vals []value.Value) {
	var ints, floats int
	for _, v := range vals {
		switch v.Kind() {
		case value.KindInt:
			ints++
		case value.KindFloat:
			floats++
		case value.KindText, value.KindBool:
			return
		}
	}
	if ints == 0 || floats == 0 {
		return
	}
	for i, v := range vals {
		if x, ok := v.Int(); ok && v.Kind() == value.KindInt {
			vals[i] = value.Float(float64(x))
		}
	}
}
