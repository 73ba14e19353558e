package main

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/nash-dir/lesserpandas/pkg/compression"
	"github.com/nash-dir/lesserpandas/pkg/dataframe"
	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/nash-dir/lesserpandas/pkg/frameio"
	"github.com/nash-dir/lesserpandas/pkg/logger"
	"github.com/nash-dir/lesserpandas/pkg/observability"
	"github.com/nash-dir/lesserpandas/pkg/value"
)

// ioOptions maps the IO section of the configuration onto frameio options.
// format may be empty, in which case the file extension decides.
func (a *app) ioOptions(format string) (frameio.Options, error) {
	c := a.cfg.IO
	opts := frameio.Options{
		NoHeader:   !c.CSVHeader,
		KeepText:   !c.InferTypes,
		NullValues: c.NullValues,
		Pretty:     c.JSONPretty,
		BatchSize:  c.ArrowBatchSize,
		AvroCodec:  c.AvroCodec,
	}
	if c.CSVDelimiter != "" {
		opts.Delimiter = c.Delimiter()
	}
	if format != "" {
		f, err := frameio.ParseFormat(format)
		if err != nil {
			return opts, err
		}
		opts.Format = f
	}
	if c.Compression != "" {
		alg, err := compression.ParseAlgorithm(c.Compression)
		if err != nil {
			return opts, err
		}
		opts.Compression = alg
	}
	level, err := compression.ParseLevel(c.CompressionLevel)
	if err != nil {
		return opts, err
	}
	opts.Level = level
	return opts, nil
}

// load reads one input table. "-" reads the command's standard input and
// requires --in-format.
func (a *app) load(cmd *cobra.Command, path string) (*dataframe.DataFrame, error) {
	opts, err := a.ioOptions(a.inFormat)
	if err != nil {
		return nil, err
	}
	// Compression of inputs always follows the file name.
	opts.Compression = ""

	var df *dataframe.DataFrame
	err = observability.Trace(a.ctx, "read", func(context.Context) error {
		var rerr error
		if path == "-" {
			if opts.Format == "" {
				return dferrors.New(dferrors.ErrorTypeConfig, "reading standard input requires --in-format")
			}
			if !stdinIsPipe(cmd) {
				return dferrors.New(dferrors.ErrorTypeConfig, "standard input is a terminal, pipe a table or pass a file")
			}
			opts.Compression = compression.None
			df, rerr = frameio.Read(cmd.InOrStdin(), opts)
			return rerr
		}
		df, rerr = frameio.ReadFile(path, opts)
		return rerr
	})
	if err != nil {
		return nil, err
	}
	logger.WithContext(context.WithValue(a.ctx, logger.SourceKey, path)).Debug("loaded table",
		zap.Int("rows", df.Len()),
		zap.Int("columns", len(df.Columns())))
	return df, nil
}

// emit writes the result to path, or prints it as text when path is empty.
// "-" writes the command's standard output and requires --out-format. A
// configured compression is appended to a path that names none, so the file
// reads back without flags.
func (a *app) emit(cmd *cobra.Command, df *dataframe.DataFrame, path string, indexLabel string) error {
	if path == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), strings.TrimRight(df.Render(a.display()), "\n")+"\n")
		return err
	}
	opts, err := a.ioOptions(a.outFormat)
	if err != nil {
		return err
	}
	opts.IndexLabel = indexLabel
	path = withCompressionSuffix(path, opts.Compression)

	_, span := observability.StartSpan(a.ctx, "write", attribute.String("path", path))
	span.SetShape(df.Shape())
	if path == "-" {
		if opts.Format == "" {
			err = dferrors.New(dferrors.ErrorTypeConfig, "writing standard output requires --out-format")
		} else {
			if opts.Compression == "" {
				opts.Compression = compression.None
			}
			err = frameio.Write(cmd.OutOrStdout(), df, opts)
		}
	} else {
		err = frameio.WriteFile(df, path, opts)
	}
	span.End(err)
	return err
}

func withCompressionSuffix(path string, alg compression.Algorithm) string {
	if path == "-" || alg == "" || alg == compression.None {
		return path
	}
	if named, _ := compression.FromPath(path); named != compression.None {
		return path
	}
	return path + compression.Extension(alg)
}

// transform runs fn inside a span named after the operation and records
// the shape of its result.
func (a *app) transform(operation string, fn func() (*dataframe.DataFrame, error)) (*dataframe.DataFrame, error) {
	_, span := observability.StartSpan(a.ctx, operation)
	df, err := fn()
	if err == nil {
		span.SetShape(df.Shape())
	}
	span.End(err)
	if err != nil {
		logger.WithContext(context.WithValue(a.ctx, logger.OperationKey, operation)).
			Debug("operation failed", zap.Error(err))
	}
	return df, err
}

// parseLiteral reads a command line scalar: null, an integer, a float, a
// boolean, or text. Quotes force text.
func parseLiteral(s string) value.Value {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return value.Text(s[1 : len(s)-1])
	}
	if strings.EqualFold(s, "null") {
		return value.Null()
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return value.Float(f)
	}
	switch s {
	case "true", "True", "TRUE":
		return value.Bool(true)
	case "false", "False", "FALSE":
		return value.Bool(false)
	}
	return value.Text(s)
}

// splitList splits comma separated names, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
