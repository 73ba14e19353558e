package frameio

import (
	"errors"
	"io"

	"github.com/nash-dir/lesserpandas/pkg/dataframe"
	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	jsonpool "github.com/nash-dir/lesserpandas/pkg/json"
	stringpool "github.com/nash-dir/lesserpandas/pkg/strings"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

func jsonFormat(f Format) jsonpool.Format {
	if f == NDJSON {
		return jsonpool.Lines
	}
	return jsonpool.Array
}

// readJSON decodes an array of flat objects, or one object per line, into
// records. Keys keep their document order.
func readJSON(r io.Reader, f Format) (*dataframe.DataFrame, error) {
	objects := jsonpool.NewObjectReader(r, jsonFormat(f))
	var records []*dataframe.Record
	for {
		obj, err := objects.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, dferrors.Wrap(err, dferrors.ErrorTypeIO, "failed to decode JSON record").
				WithDetail("record", len(records))
		}
		rec := dataframe.NewRecord()
		for i, key := range obj.Keys {
			v, err := jsonValue(obj.Values[i])
			if err != nil {
				return nil, dferrors.Wrap(err, dferrors.ErrorTypeIO, "failed to decode JSON field").
					WithDetail("record", len(records)).
					WithDetail("field", key)
			}
			rec.Set(key, v)
		}
		records = append(records, rec)
	}
	return dataframe.FromRecords(records)
}

type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
}

func jsonValue(x interface{}) (value.Value, error) {
	if n, ok := x.(number); ok {
		if i, err := n.Int64(); err == nil {
			return value.Int(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return value.Null(), err
		}
		return value.Float(f), nil
	}
	return value.Of(x)
}

// writeJSON writes one object per row with keys in column order.
func writeJSON(w io.Writer, df *dataframe.DataFrame, f Format, pretty bool) error {
	enc := jsonpool.NewStreamingEncoder(w, jsonFormat(f))
	enc.SetPretty(pretty)

	names := df.Columns()
	obj := jsonpool.NewObjectWriter(256)
	it := df.Rows()
	for it.Next() {
		obj.Reset()
		for i, v := range it.Values() {
			if err := obj.WriteField(names[i], jsonPayload(v)); err != nil {
				return err
			}
		}
		if err := enc.WriteRaw(obj.Bytes()); err != nil {
			return err
		}
	}
	return enc.Close()
}

// jsonPayload spells floats through FormatFloat so integral floats keep
// their ".0" and read back as floats.
func jsonPayload(v value.Value) interface{} {
	if f, ok := v.Float(); ok && v.Kind() == value.KindFloat {
		if plainFloat(f) == nil {
			return nil
		}
		return jsonpool.Number(stringpool.FormatFloat(f))
	}
	return v.Interface()
}
