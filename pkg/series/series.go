// Package series implements the named column: an ordered sequence of values
// paired with an equally long sequence of index labels and an optional name.
//
// Construction copies the supplied buffers unless NoCopy is given, so later
// mutation of a caller's slice never shows through a Series. Every
// transformation returns a new Series.
package series

import (
	"unicode/utf8"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	stringpool "github.com/nash-dir/lesserpandas/pkg/strings"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

// Series is a named, indexed column of values.
type Series struct {
	name   string
	values []value.Value
	index  []value.Value
}

type options struct {
	index  []value.Value
	noCopy bool
}

// Option configures New.
type Option func(*options)

// WithIndex sets the index labels. Their count must match the values.
func WithIndex(labels []value.Value) Option {
	return func(o *options) {
		o.index = labels
	}
}

// NoCopy makes the Series alias the supplied value and index slices instead
// of copying them. The caller must not mutate them afterwards.
func NoCopy() Option {
	return func(o *options) {
		o.noCopy = true
	}
}

// RangeIndex returns the default labels 0..n-1.
func RangeIndex(n int) []value.Value {
	idx := make([]value.Value, n)
	for i := range idx {
		idx[i] = value.Int(int64(i))
	}
	return idx
}

// New builds a Series. It fails with a shape error when an explicit index
// length differs from the value count.
func New(name string, values []value.Value, opts ...Option) (*Series, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.index != nil && len(o.index) != len(values) {
		return nil, dferrors.Newf(dferrors.ErrorTypeShape,
			"index length %d must match data length %d", len(o.index), len(values))
	}

	s := &Series{name: name}
	if o.noCopy {
		s.values = values
		s.index = o.index
	} else {
		s.values = clone(values)
		s.index = clone(o.index)
	}
	if s.values == nil {
		s.values = []value.Value{}
	}
	if s.index == nil {
		s.index = RangeIndex(len(s.values))
	}
	return s, nil
}

// FromValues builds a Series from Go scalars (nil, ints, floats, strings, bools).
func FromValues(name string, xs ...interface{}) (*Series, error) {
	vals, err := value.Values(xs...)
	if err != nil {
		return nil, err
	}
	return New(name, vals, NoCopy())
}

// Must panics if err is non-nil and otherwise returns s.
func Must(s *Series, err error) *Series {
	if err != nil {
		panic(err)
	}
	return s
}

// derive builds a result that shares s's index labels. Index slices are
// never mutated in place, so sharing them between results is safe.
func (s *Series) derive(values []value.Value) *Series {
	return &Series{name: s.name, values: values, index: s.index}
}

func clone(vs []value.Value) []value.Value {
	if vs == nil {
		return nil
	}
	out := make([]value.Value, len(vs))
	copy(out, vs)
	return out
}

func (s *Series) Name() string { return s.name }

func (s *Series) Len() int { return len(s.values) }

// Values returns a copy of the column values.
func (s *Series) Values() []value.Value { return clone(s.values) }

// Index returns a copy of the index labels.
func (s *Series) Index() []value.Value { return clone(s.index) }

// At returns the value at position i. It panics when i is out of range.
func (s *Series) At(i int) value.Value { return s.values[i] }

// ILoc returns the value at position i, counting from the end when negative.
func (s *Series) ILoc(i int) (value.Value, error) {
	pos := i
	if pos < 0 {
		pos += len(s.values)
	}
	if pos < 0 || pos >= len(s.values) {
		return value.Null(), dferrors.Newf(dferrors.ErrorTypeIndexOutOfRange,
			"position %d out of range [0, %d)", i, len(s.values))
	}
	return s.values[pos], nil
}

// Loc returns every value whose label matches, in order. No match is a key error.
func (s *Series) Loc(label value.Value) ([]value.Value, error) {
	var out []value.Value
	for i, l := range s.index {
		if value.Same(l, label) {
			out = append(out, s.values[i])
		}
	}
	if len(out) == 0 {
		return nil, dferrors.Newf(dferrors.ErrorTypeKey, "label '%s' not found in index", label).
			WithDetail("label", label.Interface())
	}
	return out, nil
}

// Rename returns a copy with a different name.
func (s *Series) Rename(name string) *Series {
	return &Series{name: name, values: clone(s.values), index: s.index}
}

// Copy returns a deep copy.
func (s *Series) Copy() *Series {
	return &Series{name: s.name, values: clone(s.values), index: clone(s.index)}
}

// Slice returns positions [start, stop), clamped to the column bounds.
func (s *Series) Slice(start, stop int) *Series {
	start, stop = clamp(start, len(s.values)), clamp(stop, len(s.values))
	if stop < start {
		stop = start
	}
	return &Series{
		name:   s.name,
		values: clone(s.values[start:stop]),
		index:  clone(s.index[start:stop]),
	}
}

// Head returns the first n values.
func (s *Series) Head(n int) *Series { return s.Slice(0, n) }

// Take returns the values at the given positions, in the given order.
func (s *Series) Take(positions []int) (*Series, error) {
	vals := make([]value.Value, len(positions))
	idx := make([]value.Value, len(positions))
	for i, p := range positions {
		if p < 0 || p >= len(s.values) {
			return nil, dferrors.Newf(dferrors.ErrorTypeIndexOutOfRange,
				"position %d out of range [0, %d)", p, len(s.values))
		}
		vals[i] = s.values[p]
		idx[i] = s.index[p]
	}
	return &Series{name: s.name, values: vals, index: idx}, nil
}

// Filter keeps the positions where mask is true.
func (s *Series) Filter(mask []bool) (*Series, error) {
	if len(mask) != len(s.values) {
		return nil, dferrors.Newf(dferrors.ErrorTypeShape,
			"item length %d does not match series length %d", len(mask), len(s.values))
	}
	vals := make([]value.Value, 0, len(mask))
	idx := make([]value.Value, 0, len(mask))
	for i, keep := range mask {
		if keep {
			vals = append(vals, s.values[i])
			idx = append(idx, s.index[i])
		}
	}
	return &Series{name: s.name, values: vals, index: idx}, nil
}

// Bools converts a boolean column to a mask. Null counts as false; any other
// kind fails with a type mismatch.
func (s *Series) Bools() ([]bool, error) {
	mask := make([]bool, len(s.values))
	for i, v := range s.values {
		switch v.Kind() {
		case value.KindBool:
			mask[i], _ = v.Bool()
		case value.KindNull:
		default:
			return nil, dferrors.Newf(dferrors.ErrorTypeTypeMismatch,
				"mask element %d is %s, not bool", i, v.Kind()).
				WithDetail("series", s.name)
		}
	}
	return mask, nil
}

// FirstKind returns the kind of the first non-null value, or KindNull.
func (s *Series) FirstKind() value.Kind {
	for _, v := range s.values {
		if !v.IsNull() {
			return v.Kind()
		}
	}
	return value.KindNull
}

// String renders the index and values one per line followed by the name
// and length.
func (s *Series) String() string {
	labels := make([]string, len(s.values))
	cells := make([]string, len(s.values))
	lw, vw := 0, 0
	for i := range s.values {
		labels[i] = s.index[i].String()
		cells[i] = s.values[i].String()
		lw = max(lw, utf8.RuneCountInString(labels[i]))
		vw = max(vw, utf8.RuneCountInString(cells[i]))
	}
	return stringpool.BuildString(func(b *stringpool.Builder) {
		for i := range cells {
			b.WriteString(labels[i])
			b.WriteRepeat(' ', lw-utf8.RuneCountInString(labels[i])+4)
			stringpool.PadLeft(b, cells[i], vw)
			_ = b.WriteByte('\n')
		}
		if s.name != "" {
			b.WriteString("Name: ")
			b.WriteString(s.name)
			b.WriteString(", ")
		}
		b.WriteString(stringpool.Sprintf("Length: %d", len(s.values)))
	})
}

func clamp(i, n int) int {
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
