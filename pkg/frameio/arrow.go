package frameio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/nash-dir/lesserpandas/pkg/compression"
	"github.com/nash-dir/lesserpandas/pkg/dataframe"
	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

const defaultBatchSize = 64 * 1024

func arrowType(t columnType) arrow.DataType {
	switch t {
	case typeInt:
		return arrow.PrimitiveTypes.Int64
	case typeFloat:
		return arrow.PrimitiveTypes.Float64
	case typeBool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

// writeArrow writes an Arrow IPC file, compressed as a whole with
// opts.Compression. Every field is nullable; the index is not stored.
func writeArrow(w io.Writer, df *dataframe.DataFrame, opts Options) error {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	names := df.Columns()
	cols := make([][]value.Value, len(names))
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		cols[i] = df.MustColumn(name).Values()
		fields[i] = arrow.Field{Name: name, Type: arrowType(inferType(cols[i])), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	pool := memory.NewGoAllocator()
	var buf bytes.Buffer
	fw, err := ipc.NewFileWriter(&buf, ipc.WithSchema(schema), ipc.WithAllocator(pool))
	if err != nil {
		return fmt.Errorf("failed to create Arrow writer: %w", err)
	}

	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	for start := 0; start < df.Len(); start += batchSize {
		stop := min(start+batchSize, df.Len())
		for c := range cols {
			fb := builder.Field(c)
			for _, v := range cols[c][start:stop] {
				appendArrowValue(fb, v)
			}
		}
		record := builder.NewRecord()
		err := fw.Write(record)
		record.Release()
		if err != nil {
			return fmt.Errorf("failed to write record batch: %w", err)
		}
	}

	if err := fw.Close(); err != nil {
		return fmt.Errorf("failed to close Arrow writer: %w", err)
	}

	data, err := compression.Compress(buf.Bytes(), opts.Compression, opts.Level)
	if err != nil {
		return dferrors.Wrap(err, dferrors.ErrorTypeIO, "failed to compress Arrow file")
	}
	_, err = w.Write(data)
	return err
}

func appendArrowValue(builder array.Builder, v value.Value) {
	if v.IsNull() {
		builder.AppendNull()
		return
	}
	switch b := builder.(type) {
	case *array.Int64Builder:
		x, _ := v.Int()
		b.Append(x)
	case *array.Float64Builder:
		x, _ := v.Float()
		b.Append(x)
	case *array.BooleanBuilder:
		x, _ := v.Bool()
		b.Append(x)
	case *array.StringBuilder:
		b.Append(v.String())
	default:
		builder.AppendNull()
	}
}

// readArrow loads an Arrow IPC file. The file format needs random access,
// so the stream is buffered and decompressed in memory first.
func readArrow(r io.Reader, alg compression.Algorithm) (*dataframe.DataFrame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read Arrow data: %w", err)
	}
	data, err = compression.Decompress(data, alg)
	if err != nil {
		return nil, dferrors.Wrap(err, dferrors.ErrorTypeIO, "failed to decompress Arrow file")
	}
	fr, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Arrow reader: %w", err)
	}
	defer fr.Close()

	fields := fr.Schema().Fields()
	cols := make([][]value.Value, len(fields))
	for i := range cols {
		cols[i] = []value.Value{}
	}
	for b := 0; b < fr.NumRecords(); b++ {
		record, err := fr.Record(b)
		if err != nil {
			return nil, fmt.Errorf("failed to read record batch %d: %w", b, err)
		}
		for c := range fields {
			col := record.Column(c)
			for i := 0; i < col.Len(); i++ {
				v, err := arrowValue(col, i)
				if err != nil {
					return nil, err
				}
				cols[c] = append(cols[c], v)
			}
		}
	}

	columns := make([]dataframe.ColumnData, len(fields))
	for i, f := range fields {
		columns[i] = dataframe.Col(f.Name, cols[i])
	}
	return dataframe.New(columns...)
}

func arrowValue(col arrow.Array, i int) (value.Value, error) {
	if col.IsNull(i) {
		return value.Null(), nil
	}
	switch a := col.(type) {
	case *array.Int64:
		return value.Int(a.Value(i)), nil
	case *array.Int32:
		return value.Int(int64(a.Value(i))), nil
	case *array.Int16:
		return value.Int(int64(a.Value(i))), nil
	case *array.Int8:
		return value.Int(int64(a.Value(i))), nil
	case *array.Uint32:
		return value.Int(int64(a.Value(i))), nil
	case *array.Uint16:
		return value.Int(int64(a.Value(i))), nil
	case *array.Uint8:
		return value.Int(int64(a.Value(i))), nil
	case *array.Float64:
		return value.Float(a.Value(i)), nil
	case *array.Float32:
		return value.Float(float64(a.Value(i))), nil
	case *array.Boolean:
		return value.Bool(a.Value(i)), nil
	case *array.String:
		return value.Text(a.Value(i)), nil
	case *array.LargeString:
		return value.Text(a.Value(i)), nil
	default:
		return value.Null(), dferrors.Newf(dferrors.ErrorTypeTypeMismatch,
			"unsupported Arrow column type %s", col.DataType())
	}
}
