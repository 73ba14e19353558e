package frameio

import (
	"fmt"
	"io"
	"regexp"

	"github.com/linkedin/goavro/v2"

	"github.com/nash-dir/lesserpandas/pkg/dataframe"
	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	jsonpool "github.com/nash-dir/lesserpandas/pkg/json"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

var avroName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func avroType(t columnType) string {
	switch t {
	case typeInt:
		return "long"
	case typeFloat:
		return "double"
	case typeBool:
		return "boolean"
	default:
		return "string"
	}
}

func avroCompression(name string) (string, error) {
	switch name {
	case "", goavro.CompressionNullLabel:
		return goavro.CompressionNullLabel, nil
	case goavro.CompressionDeflateLabel, goavro.CompressionSnappyLabel:
		return name, nil
	default:
		return "", dferrors.Newf(dferrors.ErrorTypeConfig, "unsupported Avro codec %q", name)
	}
}

// writeAvro writes an Avro object container file. Each column becomes a
// ["null", T] union field so nulls survive; the index is not stored.
func writeAvro(w io.Writer, df *dataframe.DataFrame, opts Options) error {
	recordName := opts.AvroRecordName
	if recordName == "" {
		recordName = "Row"
	}
	codecName, err := avroCompression(opts.AvroCodec)
	if err != nil {
		return err
	}

	names := df.Columns()
	cols := make([][]value.Value, len(names))
	types := make([]string, len(names))
	fields := make([]map[string]interface{}, len(names))
	for i, name := range names {
		if !avroName.MatchString(name) {
			return dferrors.Newf(dferrors.ErrorTypeValue, "column name %q is not a valid Avro field name", name)
		}
		cols[i] = df.MustColumn(name).Values()
		types[i] = avroType(inferType(cols[i]))
		fields[i] = map[string]interface{}{
			"name":    name,
			"type":    []interface{}{"null", types[i]},
			"default": nil,
		}
	}

	schema, err := jsonpool.Marshal(map[string]interface{}{
		"type":   "record",
		"name":   recordName,
		"fields": fields,
	})
	if err != nil {
		return err
	}
	codec, err := goavro.NewCodec(string(schema))
	if err != nil {
		return fmt.Errorf("failed to create Avro codec: %w", err)
	}
	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Codec:           codec,
		CompressionName: codecName,
	})
	if err != nil {
		return fmt.Errorf("failed to create Avro writer: %w", err)
	}

	const blockSize = 1024
	block := make([]interface{}, 0, blockSize)
	for row := 0; row < df.Len(); row++ {
		datum := make(map[string]interface{}, len(names))
		for c, name := range names {
			datum[name] = avroDatum(cols[c][row], types[c])
		}
		block = append(block, datum)
		if len(block) == blockSize {
			if err := ocf.Append(block); err != nil {
				return fmt.Errorf("failed to append Avro block: %w", err)
			}
			block = block[:0]
		}
	}
	if len(block) > 0 {
		if err := ocf.Append(block); err != nil {
			return fmt.Errorf("failed to append Avro block: %w", err)
		}
	}
	return nil
}

func avroDatum(v value.Value, typ string) interface{} {
	if v.IsNull() {
		return nil
	}
	switch typ {
	case "long":
		x, _ := v.Int()
		return goavro.Union(typ, x)
	case "double":
		x, _ := v.Float()
		return goavro.Union(typ, x)
	case "boolean":
		x, _ := v.Bool()
		return goavro.Union(typ, x)
	default:
		return goavro.Union(typ, v.String())
	}
}

// readAvro loads an Avro object container file. Column order follows the
// writer schema's field order.
func readAvro(r io.Reader) (*dataframe.DataFrame, error) {
	ocf, err := goavro.NewOCFReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create Avro reader: %w", err)
	}

	var schema struct {
		Fields []struct {
			Name string `json:"name"`
		} `json:"fields"`
	}
	if err := jsonpool.Unmarshal([]byte(ocf.Codec().Schema()), &schema); err != nil {
		return nil, fmt.Errorf("failed to parse Avro schema: %w", err)
	}
	if len(schema.Fields) == 0 {
		return nil, dferrors.New(dferrors.ErrorTypeTypeMismatch, "Avro schema is not a record of fields")
	}

	cols := make([][]value.Value, len(schema.Fields))
	for i := range cols {
		cols[i] = []value.Value{}
	}
	for ocf.Scan() {
		datum, err := ocf.Read()
		if err != nil {
			return nil, fmt.Errorf("failed to read Avro datum: %w", err)
		}
		rec, ok := datum.(map[string]interface{})
		if !ok {
			return nil, dferrors.Newf(dferrors.ErrorTypeTypeMismatch, "Avro datum is %T, not a record", datum)
		}
		for c, f := range schema.Fields {
			v, err := avroValue(rec[f.Name])
			if err != nil {
				return nil, dferrors.Wrap(err, dferrors.ErrorTypeTypeMismatch, "unsupported Avro value").
					WithDetail("field", f.Name)
			}
			cols[c] = append(cols[c], v)
		}
	}
	if err := ocf.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan Avro file: %w", err)
	}

	data := make([]dataframe.ColumnData, len(schema.Fields))
	for i, f := range schema.Fields {
		data[i] = dataframe.Col(f.Name, cols[i])
	}
	return dataframe.New(data...)
}

// avroValue unwraps union maps ({"long": 3}) and converts the native
// goavro payload.
func avroValue(x interface{}) (value.Value, error) {
	if m, ok := x.(map[string]interface{}); ok && len(m) == 1 {
		for _, inner := range m {
			x = inner
		}
	}
	switch d := x.(type) {
	case int32:
		return value.Int(int64(d)), nil
	case float32:
		return value.Float(float64(d)), nil
	case []byte:
		return value.Text(string(d)), nil
	default:
		return value.Of(d)
	}
}
