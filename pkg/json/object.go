package json

import (
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
)

// ObjectWriter builds one JSON object field by field, keeping insertion
// order. The buffer is reused across Reset calls.
type ObjectWriter struct {
	buffer []byte
	fields int
}

// NewObjectWriter creates a writer with the given initial capacity.
func NewObjectWriter(initialSize int) *ObjectWriter {
	w := &ObjectWriter{buffer: make([]byte, 0, initialSize)}
	w.Reset()
	return w
}

// WriteField appends "key": value. The key is escaped.
func (w *ObjectWriter) WriteField(key string, value interface{}) error {
	k, err := gojson.Marshal(key)
	if err != nil {
		return err
	}
	data, err := gojson.Marshal(value)
	if err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	if w.fields > 0 {
		w.buffer = append(w.buffer, ',')
	}
	w.buffer = append(w.buffer, k...)
	w.buffer = append(w.buffer, ':')
	w.buffer = append(w.buffer, data...)
	w.fields++
	return nil
}

// Bytes closes the object and returns it. The slice is only valid until
// the next Reset.
func (w *ObjectWriter) Bytes() []byte {
	return append(w.buffer, '}')
}

// Reset resets the writer for reuse
func (w *ObjectWriter) Reset() {
	w.buffer = append(w.buffer[:0], '{')
	w.fields = 0
}

// Object is a decoded flat JSON object with its keys in document order.
// Values are nil, bool, string or gojson.Number.
type Object struct {
	Keys   []string
	Values []interface{}
}

// ObjectReader reads flat objects from an array or a line stream.
type ObjectReader struct {
	dec          *gojson.Decoder
	format       Format
	arrayStarted bool
	done         bool
}

// NewObjectReader creates a reader over r.
func NewObjectReader(r io.Reader, format Format) *ObjectReader {
	return &ObjectReader{dec: NewDecoder(r), format: format}
}

// Next returns the next object, or io.EOF when the stream is exhausted.
// Nested arrays and objects are rejected.
func (r *ObjectReader) Next() (*Object, error) {
	if r.done {
		return nil, io.EOF
	}
	if r.format == Array {
		if !r.arrayStarted {
			token, err := r.dec.Token()
			if err != nil {
				return nil, fmt.Errorf("failed to read JSON array start: %w", err)
			}
			if delim, ok := token.(gojson.Delim); !ok || delim != '[' {
				return nil, fmt.Errorf("expected JSON array, got %v", token)
			}
			r.arrayStarted = true
		}
		if !r.dec.More() {
			r.done = true
			if _, err := r.dec.Token(); err != nil {
				return nil, fmt.Errorf("failed to read JSON array end: %w", err)
			}
			return nil, io.EOF
		}
	} else if !r.dec.More() {
		r.done = true
		return nil, io.EOF
	}
	return r.readObject()
}

func (r *ObjectReader) readObject() (*Object, error) {
	token, err := r.dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := token.(gojson.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", token)
	}

	obj := &Object{}
	for r.dec.More() {
		token, err := r.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", token)
		}
		token, err = r.dec.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := token.(gojson.Delim); ok {
			return nil, fmt.Errorf("field %q: nested value %v is not supported", key, delim)
		}
		obj.Keys = append(obj.Keys, key)
		obj.Values = append(obj.Values, token)
	}
	if _, err := r.dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}
