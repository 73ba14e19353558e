package json

import (
	"bytes"
	"io"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectWriterKeepsOrder(t *testing.T) {
	w := NewObjectWriter(64)
	require.NoError(t, w.WriteField("z", 1))
	require.NoError(t, w.WriteField("a\"b", "x<y"))
	require.NoError(t, w.WriteField("n", nil))
	assert.Equal(t, `{"z":1,"a\"b":"x<y","n":null}`, string(w.Bytes()))

	w.Reset()
	assert.Equal(t, `{}`, string(w.Bytes()))
}

func TestStreamingEncoderArray(t *testing.T) {
	var buf bytes.Buffer
	se := NewStreamingEncoder(&buf, Array)
	require.NoError(t, se.WriteRaw([]byte(`{"a":1}`)))
	require.NoError(t, se.Encode(map[string]int{"a": 2}))
	require.NoError(t, se.Close())
	assert.Equal(t, "[{\"a\":1},{\"a\":2}]\n", buf.String())
}

func TestStreamingEncoderEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	se := NewStreamingEncoder(&buf, Array)
	se.SetPretty(true)
	require.NoError(t, se.Close())
	assert.Equal(t, "[]\n", buf.String())
}

func TestStreamingEncoderLines(t *testing.T) {
	var buf bytes.Buffer
	se := NewStreamingEncoder(&buf, Lines)
	require.NoError(t, se.WriteRaw([]byte(`{"a":1}`)))
	require.NoError(t, se.WriteRaw([]byte(`{"a":2}`)))
	require.NoError(t, se.Close())
	assert.Equal(t, "{\"a\":1}\n{\"a\":2}\n", buf.String())
}

func readAll(t *testing.T, r *ObjectReader) []*Object {
	t.Helper()
	var out []*Object
	for {
		obj, err := r.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, obj)
	}
}

func TestObjectReaderArray(t *testing.T) {
	r := NewObjectReader(strings.NewReader(`[{"b": 1, "a": "x"}, {"c": null, "d": true, "e": 2.5}]`), Array)
	objs := readAll(t, r)
	require.Len(t, objs, 2)

	assert.Equal(t, []string{"b", "a"}, objs[0].Keys)
	n, ok := objs[0].Values[0].(gojson.Number)
	require.True(t, ok)
	assert.Equal(t, "1", n.String())
	assert.Equal(t, "x", objs[0].Values[1])

	assert.Equal(t, []string{"c", "d", "e"}, objs[1].Keys)
	assert.Nil(t, objs[1].Values[0])
	assert.Equal(t, true, objs[1].Values[1])
}

func TestObjectReaderLines(t *testing.T) {
	r := NewObjectReader(strings.NewReader("{\"a\":1}\n\n{\"a\":2}\n"), Lines)
	objs := readAll(t, r)
	require.Len(t, objs, 2)
	assert.Equal(t, []string{"a"}, objs[1].Keys)
}

func TestObjectReaderErrors(t *testing.T) {
	_, err := NewObjectReader(strings.NewReader(`{"a":1}`), Array).Next()
	assert.Error(t, err)

	_, err = NewObjectReader(strings.NewReader(`[{"a":[1]}]`), Array).Next()
	assert.Error(t, err)

	_, err = NewObjectReader(strings.NewReader(`[1]`), Array).Next()
	assert.Error(t, err)
}

func TestBufferPool(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("data")
	PutBuffer(buf)
	assert.Equal(t, 0, GetBuffer().Len())
}
