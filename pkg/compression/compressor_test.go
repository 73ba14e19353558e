package compression

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
)

func TestRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("id,name,score\n1,alice,1.5\n"), 200)
	for _, alg := range []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2} {
		for _, level := range []Level{Fastest, Default, Best} {
			compressed, err := Compress(data, alg, level)
			require.NoError(t, err, "%s/%d", alg, level)
			if alg != None {
				assert.Less(t, len(compressed), len(data), "%s should shrink repetitive input", alg)
			}

			out, err := Decompress(compressed, alg)
			require.NoError(t, err, "%s/%d", alg, level)
			assert.Equal(t, data, out)
		}
	}
}

func TestStreamingWriterDoesNotCloseTarget(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Zstd, Default)
	require.NoError(t, err)
	_, err = io.WriteString(w, "hello")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := NewReader(&buf, Zstd)
	require.NoError(t, err)
	defer r.Close()
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))
}

func TestFromPath(t *testing.T) {
	tests := []struct {
		path string
		alg  Algorithm
		base string
	}{
		{"rows.csv", None, "rows.csv"},
		{"rows.csv.gz", Gzip, "rows.csv"},
		{"rows.ndjson.ZST", Zstd, "rows.ndjson"},
		{"rows.arrow.lz4", LZ4, "rows.arrow"},
		{"rows.json.sz", Snappy, "rows.json"},
		{"rows.csv.s2", S2, "rows.csv"},
	}
	for _, tt := range tests {
		alg, base := FromPath(tt.path)
		assert.Equal(t, tt.alg, alg, tt.path)
		assert.Equal(t, tt.base, base, tt.path)
	}
	assert.Equal(t, ".zst", Extension(Zstd))
	assert.Equal(t, "", Extension(None))
}

func TestParse(t *testing.T) {
	alg, err := ParseAlgorithm("GZIP")
	require.NoError(t, err)
	assert.Equal(t, Gzip, alg)

	alg, err = ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, None, alg)

	_, err = ParseAlgorithm("brotli")
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeConfig))

	level, err := ParseLevel("best")
	require.NoError(t, err)
	assert.Equal(t, Best, level)

	_, err = ParseLevel("max")
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeConfig))

	_, err = NewWriter(&bytes.Buffer{}, Algorithm("brotli"), Default)
	assert.Error(t, err)
}

func TestDecompressCorrupt(t *testing.T) {
	_, err := Decompress([]byte("not compressed"), Gzip)
	assert.Error(t, err)
}
