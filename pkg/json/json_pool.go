// Package json provides pooled JSON encoding and decoding on top of
// goccy/go-json, plus order-preserving object reading and writing for
// tabular records.
package json

import (
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/nash-dir/lesserpandas/pkg/pool"
)

// Format selects the framing of a stream of JSON objects.
type Format string

const (
	// Array is a single JSON array of objects.
	Array Format = "array"
	// Lines is one object per line (NDJSON / JSONL).
	Lines Format = "lines"
)

// Number is a JSON number literal kept as text.
type Number = gojson.Number

var bufferPool = pool.New(
	func() *bytes.Buffer { return bytes.NewBuffer(make([]byte, 0, 4096)) },
	func(buf *bytes.Buffer) { buf.Reset() },
)

// GetBuffer gets a pooled bytes.Buffer
func GetBuffer() *bytes.Buffer {
	return bufferPool.Get()
}

// PutBuffer returns a buffer to the pool
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 1024*1024 { // Don't pool very large buffers
		return
	}
	bufferPool.Put(buf)
}

// BufferStats reports usage of the buffer pool.
func BufferStats() pool.Stats {
	return bufferPool.Stats()
}

// NewEncoder returns an encoder that does not escape HTML.
func NewEncoder(w io.Writer) *gojson.Encoder {
	enc := gojson.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

// NewDecoder returns a decoder that keeps numbers as gojson.Number so ints
// survive without a float round trip.
func NewDecoder(r io.Reader) *gojson.Decoder {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	return dec
}

// Marshal is a high-performance drop-in replacement for json.Marshal
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal is a high-performance drop-in replacement for json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// MarshalIndent is a high-performance replacement for json.MarshalIndent
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

// StreamingEncoder writes a sequence of pre-encoded objects as an array
// or as lines.
type StreamingEncoder struct {
	writer      io.Writer
	format      Format
	firstRecord bool
	pretty      bool
	err         error
}

// NewStreamingEncoder creates a new streaming encoder
func NewStreamingEncoder(w io.Writer, format Format) *StreamingEncoder {
	se := &StreamingEncoder{
		writer:      w,
		format:      format,
		firstRecord: true,
	}
	if format == Array {
		se.write([]byte{'['})
	}
	return se
}

// SetPretty puts each array element on its own line.
func (se *StreamingEncoder) SetPretty(pretty bool) {
	se.pretty = pretty
}

func (se *StreamingEncoder) write(p []byte) {
	if se.err != nil {
		return
	}
	_, se.err = se.writer.Write(p)
}

// WriteRaw writes one already encoded JSON value.
func (se *StreamingEncoder) WriteRaw(obj []byte) error {
	switch se.format {
	case Array:
		if !se.firstRecord {
			se.write([]byte{','})
		}
		if se.pretty {
			se.write([]byte{'\n'})
		}
		se.write(obj)
	default:
		se.write(obj)
		se.write([]byte{'\n'})
	}
	se.firstRecord = false
	return se.err
}

// Encode marshals v and writes it as the next element.
func (se *StreamingEncoder) Encode(v interface{}) error {
	data, err := gojson.Marshal(v)
	if err != nil {
		return err
	}
	return se.WriteRaw(data)
}

// Close finalizes the encoding
func (se *StreamingEncoder) Close() error {
	if se.format == Array {
		if se.pretty && !se.firstRecord {
			se.write([]byte{'\n'})
		}
		se.write([]byte{']', '\n'})
	}
	return se.err
}
