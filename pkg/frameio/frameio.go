// Package frameio reads and writes DataFrames as CSV, JSON, NDJSON, Arrow
// IPC files and Avro object container files. Any of them may be wrapped
// in a compressed stream, detected from a trailing .gz, .zst, .sz, .s2 or
// .lz4 extension.
package frameio

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nash-dir/lesserpandas/pkg/compression"
	"github.com/nash-dir/lesserpandas/pkg/dataframe"
	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/nash-dir/lesserpandas/pkg/logger"
	"github.com/nash-dir/lesserpandas/pkg/metrics"
)

// Format is a table file format.
type Format string

const (
	CSV    Format = "csv"
	JSON   Format = "json"
	NDJSON Format = "ndjson"
	Arrow  Format = "arrow"
	Avro   Format = "avro"
)

var formatExtensions = map[string]Format{
	".csv":     CSV,
	".tsv":     CSV,
	".json":    JSON,
	".ndjson":  NDJSON,
	".jsonl":   NDJSON,
	".arrow":   Arrow,
	".feather": Arrow,
	".ipc":     Arrow,
	".avro":    Avro,
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case CSV, JSON, NDJSON, Arrow, Avro:
		return f, nil
	case "jsonl":
		return NDJSON, nil
	default:
		return "", dferrors.Newf(dferrors.ErrorTypeConfig, "unsupported format %q", name)
	}
}

// Detect infers the format and compression of path from its extensions,
// e.g. "rows.ndjson.zst" is NDJSON in a zstd stream.
func Detect(path string) (Format, compression.Algorithm, error) {
	alg, base := compression.FromPath(path)
	ext := strings.ToLower(filepath.Ext(base))
	f, ok := formatExtensions[ext]
	if !ok {
		return "", alg, dferrors.Newf(dferrors.ErrorTypeConfig,
			"cannot detect table format of %q, set it explicitly", path)
	}
	return f, alg, nil
}

// Options tune reading and writing. The zero value is usable.
type Options struct {
	// Format overrides extension detection when non-empty.
	Format Format
	// Compression overrides extension detection when non-empty.
	Compression compression.Algorithm
	// Level applies when writing a compressed stream.
	Level compression.Level
	// Delimiter separates CSV fields. Zero means ',' (or '\t' for .tsv).
	Delimiter rune
	// NoHeader reads the first CSV line as data and names columns 0, 1, ...
	// When writing, the header line is omitted.
	NoHeader bool
	// KeepText disables CSV type inference: every non-null cell is text.
	KeepText bool
	// NullValues are the CSV cells read as null. Nil means only the empty
	// cell.
	NullValues []string
	// IndexLabel, when non-empty, writes the row index as a leading CSV
	// column of that name.
	IndexLabel string
	// Pretty puts each JSON array element on its own line.
	Pretty bool
	// BatchSize bounds Arrow record batches. Zero means 65536 rows.
	BatchSize int
	// AvroCodec names the Avro block codec: null, deflate or snappy.
	AvroCodec string
	// AvroRecordName names the Avro record schema. Zero means "Row".
	AvroRecordName string
}

func (o Options) resolve(path string) (Options, error) {
	if o.Format == "" || o.Compression == "" {
		f, alg, err := Detect(path)
		if o.Format == "" {
			if err != nil {
				return o, err
			}
			o.Format = f
		}
		if o.Compression == "" {
			o.Compression = alg
		}
	}
	if o.Delimiter == 0 {
		o.Delimiter = ','
		_, base := compression.FromPath(path)
		if strings.EqualFold(filepath.Ext(base), ".tsv") {
			o.Delimiter = '\t'
		}
	}
	if o.Level == 0 {
		o.Level = compression.Default
	}
	return o, nil
}

// ReadFile loads a table from path. "-" reads standard input, in which
// case opts.Format is required.
func ReadFile(path string, opts Options) (*dataframe.DataFrame, error) {
	if path == "-" {
		if opts.Format == "" {
			return nil, dferrors.New(dferrors.ErrorTypeConfig, "reading standard input requires an explicit format")
		}
		if opts.Compression == "" {
			opts.Compression = compression.None
		}
		return Read(os.Stdin, opts)
	}

	opts, err := opts.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, dferrors.Wrap(err, dferrors.ErrorTypeIO, "failed to open table file").
			WithDetail("path", path)
	}
	defer f.Close()

	df, err := Read(bufio.NewReaderSize(f, 64*1024), opts)
	if err != nil {
		return nil, dferrors.Wrap(err, dferrors.ErrorTypeIO, "failed to read table file").
			WithDetail("path", path)
	}
	return df, nil
}

// WriteFile stores df at path, creating or truncating it. "-" writes
// standard output, in which case opts.Format is required.
func WriteFile(df *dataframe.DataFrame, path string, opts Options) (err error) {
	if path == "-" {
		if opts.Format == "" {
			return dferrors.New(dferrors.ErrorTypeConfig, "writing standard output requires an explicit format")
		}
		if opts.Compression == "" {
			opts.Compression = compression.None
		}
		return Write(os.Stdout, df, opts)
	}

	opts, err = opts.resolve(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return dferrors.Wrap(err, dferrors.ErrorTypeIO, "failed to create table file").
			WithDetail("path", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = dferrors.Wrap(cerr, dferrors.ErrorTypeIO, "failed to close table file")
		}
	}()

	bw := bufio.NewWriterSize(f, 64*1024)
	if err := Write(bw, df, opts); err != nil {
		return dferrors.Wrap(err, dferrors.ErrorTypeIO, "failed to write table file").
			WithDetail("path", path)
	}
	if err := bw.Flush(); err != nil {
		return dferrors.Wrap(err, dferrors.ErrorTypeIO, "failed to flush table file").
			WithDetail("path", path)
	}
	return nil
}

// Read decodes a table from r. opts.Format must be set.
func Read(r io.Reader, opts Options) (*dataframe.DataFrame, error) {
	start := time.Now()
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}

	df, err := decode(r, opts)
	if err != nil {
		return nil, err
	}

	metrics.ObserveIO(string(opts.Format), "read", df.Len())
	logger.Debug("table read",
		zap.String("format", string(opts.Format)),
		zap.String("compression", string(opts.Compression)),
		zap.Int("rows", df.Len()),
		zap.Int("columns", len(df.Columns())),
		zap.Duration("elapsed", time.Since(start)))
	return df, nil
}

func decode(r io.Reader, opts Options) (*dataframe.DataFrame, error) {
	// Arrow is buffered whole and decompressed in memory.
	if opts.Format == Arrow {
		return readArrow(r, opts.Compression)
	}

	zr, err := compression.NewReader(r, opts.Compression)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	switch opts.Format {
	case CSV:
		return readCSV(zr, opts)
	case JSON:
		return readJSON(zr, JSON)
	case NDJSON:
		return readJSON(zr, NDJSON)
	case Avro:
		return readAvro(zr)
	default:
		return nil, dferrors.Newf(dferrors.ErrorTypeConfig, "unsupported format %q", opts.Format)
	}
}

// Write encodes df to w. opts.Format must be set.
func Write(w io.Writer, df *dataframe.DataFrame, opts Options) error {
	start := time.Now()
	if opts.Level == 0 {
		opts.Level = compression.Default
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}

	if err := encode(w, df, opts); err != nil {
		return err
	}

	metrics.ObserveIO(string(opts.Format), "write", df.Len())
	logger.Debug("table written",
		zap.String("format", string(opts.Format)),
		zap.String("compression", string(opts.Compression)),
		zap.Int("rows", df.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func encode(w io.Writer, df *dataframe.DataFrame, opts Options) error {
	if opts.Format == Arrow {
		return writeArrow(w, df, opts)
	}

	zw, err := compression.NewWriter(w, opts.Compression, opts.Level)
	if err != nil {
		return err
	}

	switch opts.Format {
	case CSV:
		err = writeCSV(zw, df, opts)
	case JSON:
		err = writeJSON(zw, df, JSON, opts.Pretty)
	case NDJSON:
		err = writeJSON(zw, df, NDJSON, false)
	case Avro:
		err = writeAvro(zw, df, opts)
	default:
		err = dferrors.Newf(dferrors.ErrorTypeConfig, "unsupported format %q", opts.Format)
	}
	if err != nil {
		_ = zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return dferrors.Wrap(err, dferrors.ErrorTypeIO, "failed to finish compressed stream")
	}
	return nil
}
