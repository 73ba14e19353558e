package frameio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nash-dir/lesserpandas/pkg/compression"
	"github.com/nash-dir/lesserpandas/pkg/dataframe"
	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/nash-dir/lesserpandas/pkg/testutil"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

func fixture(t *testing.T) *dataframe.DataFrame {
	t.Helper()
	return testutil.Frame(t,
		dataframe.Col("id", []int{1, 2, 3}),
		dataframe.Col("name", []interface{}{"alice", nil, "carol, jr"}),
		dataframe.Col("score", []interface{}{1.5, 2.0, nil}),
		dataframe.Col("active", []interface{}{true, false, nil}),
	)
}

func TestRoundTripFormats(t *testing.T) {
	dir := t.TempDir()
	df := fixture(t)

	for _, name := range []string{
		"rows.csv", "rows.tsv", "rows.json", "rows.ndjson", "rows.jsonl", "rows.arrow", "rows.avro",
		"rows.csv.gz", "rows.json.zst", "rows.ndjson.sz", "rows.arrow.lz4", "rows.avro.s2",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteFile(df, path, Options{}))

			back, err := ReadFile(path, Options{})
			require.NoError(t, err)
			testutil.AssertFrameEqual(t, df, back)
		})
	}
}

func TestCompressedArrowIsWholeFile(t *testing.T) {
	df := fixture(t)
	path := filepath.Join(t.TempDir(), "rows.arrow.zst")
	require.NoError(t, WriteFile(df, path, Options{}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	plain, err := compression.Decompress(raw, compression.Zstd)
	require.NoError(t, err)

	back, err := Read(bytes.NewReader(plain), Options{Format: Arrow, Compression: compression.None})
	require.NoError(t, err)
	testutil.AssertFrameEqual(t, df, back)

	_, err = Read(bytes.NewReader(plain), Options{Format: Arrow, Compression: compression.Gzip})
	assert.Error(t, err)
}

func TestAvroCodecs(t *testing.T) {
	df := fixture(t)
	for _, codec := range []string{"null", "deflate", "snappy"} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, df, Options{Format: Avro, AvroCodec: codec}))
		back, err := Read(&buf, Options{Format: Avro})
		require.NoError(t, err)
		assert.True(t, df.Equal(back), codec)
	}

	var buf bytes.Buffer
	err := Write(&buf, df, Options{Format: Avro, AvroCodec: "bzip2"})
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeConfig))
}

func TestAvroRejectsInvalidFieldNames(t *testing.T) {
	df := dataframe.Must(dataframe.New(dataframe.Col("total sales", []int{1})))
	var buf bytes.Buffer
	err := Write(&buf, df, Options{Format: Avro})
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeValue))
}

func TestReadCSVInference(t *testing.T) {
	input := "a,b,c,d\n1,x,1.5,true\n,y,2,False\n3,,,\n"
	df, err := Read(strings.NewReader(input), Options{Format: CSV})
	require.NoError(t, err)

	col := func(name string) []value.Value {
		return df.MustColumn(name).Values()
	}
	assert.Equal(t, value.MustValues(1, nil, 3), col("a"))
	assert.Equal(t, value.MustValues("x", "y", nil), col("b"))
	assert.Equal(t, value.MustValues(1.5, 2.0, nil), col("c"))
	assert.Equal(t, value.MustValues(true, false, nil), col("d"))
}

func TestReadCSVHeaderOnly(t *testing.T) {
	df, err := Read(strings.NewReader("a,b\n"), Options{Format: CSV})
	require.NoError(t, err)
	rows, cols := df.Shape()
	assert.Equal(t, 0, rows)
	assert.Equal(t, 2, cols)

	df, err = Read(strings.NewReader(""), Options{Format: CSV})
	require.NoError(t, err)
	assert.Empty(t, df.Columns())
}

func TestReadCSVRaggedRow(t *testing.T) {
	_, err := Read(strings.NewReader("a,b\n1\n"), Options{Format: CSV})
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeIO))
}

func TestWriteCSVWithIndex(t *testing.T) {
	df := dataframe.Must(dataframe.New(dataframe.Col("v", []interface{}{1.0, nil})))
	df, err := df.SetIndex(value.MustValues("p", "q"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, df, Options{Format: CSV, IndexLabel: "key"}))
	assert.Equal(t, "key,v\np,1.0\nq,\n", buf.String())
}

func TestReadJSONUnionSchema(t *testing.T) {
	input := `[{"b": 1, "a": "x"}, {"a": "y", "c": 2.5, "b": null}]`
	df, err := Read(strings.NewReader(input), Options{Format: JSON})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, df.Columns())
	assert.Equal(t, value.MustValues(1, nil), df.MustColumn("b").Values())
	assert.Equal(t, value.MustValues(nil, 2.5), df.MustColumn("c").Values())
}

func TestWriteJSONKeepsColumnOrder(t *testing.T) {
	df := dataframe.Must(dataframe.New(
		dataframe.Col("z", []int{1}),
		dataframe.Col("a", []float64{2}),
	))
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, df, Options{Format: NDJSON}))
	assert.Equal(t, "{\"z\":1,\"a\":2.0}\n", buf.String())
}

func TestMixedColumnsStoredAsText(t *testing.T) {
	df := dataframe.Must(dataframe.New(dataframe.Col("m", []interface{}{1, "x", true})))
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, df, Options{Format: Arrow}))
	back, err := Read(&buf, Options{Format: Arrow})
	require.NoError(t, err)
	assert.Equal(t, value.MustValues("1", "x", "true"), back.MustColumn("m").Values())
}

func TestArrowBatches(t *testing.T) {
	xs := make([]int, 10)
	for i := range xs {
		xs[i] = i
	}
	df := dataframe.Must(dataframe.New(dataframe.Col("x", xs)))
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, df, Options{Format: Arrow, BatchSize: 3}))
	back, err := Read(&buf, Options{Format: Arrow})
	require.NoError(t, err)
	assert.True(t, df.Equal(back))
}

func TestDetect(t *testing.T) {
	f, alg, err := Detect("data/rows.ndjson.zst")
	require.NoError(t, err)
	assert.Equal(t, NDJSON, f)
	assert.Equal(t, compression.Zstd, alg)

	_, _, err = Detect("rows.parquet")
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeConfig))

	f, err = ParseFormat("JSONL")
	require.NoError(t, err)
	assert.Equal(t, NDJSON, f)
}

func TestReadFileErrors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"), Options{})
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeIO))

	_, err = ReadFile("-", Options{})
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeConfig))

	path := testutil.WriteFile(t, t.TempDir(), "bad.json", []byte(`{"not": "an array"}`))
	_, err = ReadFile(path, Options{})
	assert.True(t, dferrors.IsType(err, dferrors.ErrorTypeIO))
}

func TestReadCSVOptions(t *testing.T) {
	input := "1,NA,x\n2,3,-\n"
	df, err := Read(strings.NewReader(input), Options{
		Format:     CSV,
		NoHeader:   true,
		NullValues: []string{"NA", "-"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, df.Columns())
	assert.Equal(t, value.MustValues(nil, 3), df.MustColumn("1").Values())
	assert.Equal(t, value.MustValues("x", nil), df.MustColumn("2").Values())

	df, err = Read(strings.NewReader("a\n007\n\n"), Options{Format: CSV, KeepText: true})
	require.NoError(t, err)
	assert.Equal(t, value.MustValues("007"), df.MustColumn("a").Values())
}
