package dataframe

import (
	"github.com/cespare/xxhash/v2"

	"github.com/nash-dir/lesserpandas/pkg/value"
)

// keyTable buckets rows by the tuple of their values on a set of key
// columns. Tuples are hashed with xxhash over a normalized binary encoding
// and confirmed with value.Same, so 1 and 1.0 share a key and null is a key
// like any other.
type keyTable struct {
	cols    [][]value.Value
	buckets map[uint64][]int
	groups  [][]int
	buf     []byte
}

func newKeyTable(cols [][]value.Value) *keyTable {
	return &keyTable{
		cols:    cols,
		buckets: make(map[uint64][]int),
	}
}

func (t *keyTable) hash(cols [][]value.Value, row int) uint64 {
	t.buf = t.buf[:0]
	for _, c := range cols {
		t.buf = c[row].AppendKey(t.buf)
	}
	return xxhash.Sum64(t.buf)
}

func sameKey(a [][]value.Value, ai int, b [][]value.Value, bi int) bool {
	for k := range a {
		if !value.Same(a[k][ai], b[k][bi]) {
			return false
		}
	}
	return true
}

// add places row in its group, creating the group on first sight, and
// returns the group id. Group ids follow first-seen order.
func (t *keyTable) add(row int) int {
	h := t.hash(t.cols, row)
	for _, g := range t.buckets[h] {
		if sameKey(t.cols, t.groups[g][0], t.cols, row) {
			t.groups[g] = append(t.groups[g], row)
			return g
		}
	}
	g := len(t.groups)
	t.groups = append(t.groups, []int{row})
	t.buckets[h] = append(t.buckets[h], g)
	return g
}

// lookup finds the group whose key equals row of probe.
func (t *keyTable) lookup(probe [][]value.Value, row int) (int, bool) {
	h := t.hash(probe, row)
	for _, g := range t.buckets[h] {
		if sameKey(t.cols, t.groups[g][0], probe, row) {
			return g, true
		}
	}
	return 0, false
}

// key returns the key tuple of group g, taken from its first row.
func (t *keyTable) key(g int) []value.Value {
	row := t.groups[g][0]
	out := make([]value.Value, len(t.cols))
	for k, c := range t.cols {
		out[k] = c[row]
	}
	return out
}
