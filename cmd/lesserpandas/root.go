package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/nash-dir/lesserpandas/pkg/config"
	"github.com/nash-dir/lesserpandas/pkg/dataframe"
	"github.com/nash-dir/lesserpandas/pkg/dferrors"
	"github.com/nash-dir/lesserpandas/pkg/json"
	"github.com/nash-dir/lesserpandas/pkg/logger"
	"github.com/nash-dir/lesserpandas/pkg/metrics"
	"github.com/nash-dir/lesserpandas/pkg/observability"
	"github.com/nash-dir/lesserpandas/pkg/pool"
	stringpool "github.com/nash-dir/lesserpandas/pkg/strings"
)

const envPrefix = "LESSERPANDAS"

// flagKeys binds persistent flags to configuration keys. A flag set on the
// command line wins over LESSERPANDAS_* variables, which win over the
// configuration file, which wins over the defaults.
var flagKeys = map[string]string{
	"log.level":                         "log-level",
	"log.encoding":                      "log-format",
	"io.csv_delimiter":                  "delimiter",
	"io.csv_header":                     "header",
	"io.infer_types":                    "infer-types",
	"io.null_values":                    "null-values",
	"io.json_pretty":                    "pretty",
	"io.compression":                    "compression",
	"io.compression_level":              "compression-level",
	"io.arrow_batch_size":               "arrow-batch-size",
	"io.avro_codec":                     "avro-codec",
	"display.max_rows":                  "max-rows",
	"display.max_col_width":             "max-col-width",
	"observability.enable_metrics":      "metrics",
	"observability.enable_tracing":      "trace",
	"observability.tracing_sample_rate": "trace-sample-rate",
}

// app carries the state shared by the commands of one invocation.
type app struct {
	configPath  string
	inFormat    string
	outFormat   string
	dumpMetrics bool

	cfg      *config.Config
	log      *zap.Logger
	ctx      context.Context
	span     *observability.Span
	shutdown observability.ShutdownFunc
}

// execute runs one command line and flushes traces and metrics whether or
// not the command succeeded.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root, a := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if ferr := a.finish(stderr, err); err == nil {
		err = ferr
	}
	return err
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{ctx: context.Background()}
	defaults := config.Default()

	root := &cobra.Command{
		Use:   "lesserpandas",
		Short: "lesserpandas - inspect and reshape tabular files",
		Long: `lesserpandas loads CSV, JSON, NDJSON, Arrow and Avro tables into memory,
optionally compressed with gzip, zstd, snappy, s2 or lz4, and runs table
operations on them: selection, filtering, sorting, joins, grouping and
concatenation.

Settings come from, in increasing priority, built-in defaults, a YAML file
given with --config, LESSERPANDAS_* environment variables (for example
LESSERPANDAS_IO_CSV_DELIMITER) and command line flags.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "Path to a YAML configuration file")
	pf.StringVar(&a.inFormat, "in-format", "", "Input format (csv, json, ndjson, arrow, avro); detected from the extension when empty")
	pf.StringVar(&a.outFormat, "out-format", "", "Output format; detected from the extension when empty")
	pf.BoolVar(&a.dumpMetrics, "dump-metrics", false, "Print Prometheus metrics to stderr when the command finishes")

	pf.String("log-level", defaults.Log.Level, "Log level (debug, info, warn, error)")
	pf.String("log-format", defaults.Log.Encoding, "Log encoding (json, console)")
	pf.String("delimiter", defaults.IO.CSVDelimiter, "CSV field delimiter; ',' when empty, a tab for .tsv files")
	pf.Bool("header", defaults.IO.CSVHeader, "CSV files carry a header line")
	pf.Bool("infer-types", defaults.IO.InferTypes, "Parse CSV cells as numbers and booleans when they look like one")
	pf.StringSlice("null-values", defaults.IO.NullValues, "CSV cells read as null")
	pf.Bool("pretty", defaults.IO.JSONPretty, "Write one JSON array element per line")
	pf.String("compression", defaults.IO.Compression, "Compression of written files (none, gzip, zstd, snappy, s2, lz4); detected from the extension when empty")
	pf.String("compression-level", defaults.IO.CompressionLevel, "Compression level (fastest, default, better, best)")
	pf.Int("arrow-batch-size", defaults.IO.ArrowBatchSize, "Rows per Arrow record batch")
	pf.String("avro-codec", defaults.IO.AvroCodec, "Avro block codec (null, deflate, snappy)")
	pf.Int("max-rows", defaults.Display.MaxRows, "Rows shown when printing a table; 0 shows all")
	pf.Int("max-col-width", defaults.Display.MaxColWidth, "Truncate printed cells wider than this; 0 disables")
	pf.Bool("metrics", defaults.Observability.EnableMetrics, "Record Prometheus metrics")
	pf.Bool("trace", defaults.Observability.EnableTracing, "Export OpenTelemetry spans to stderr")
	pf.Float64("trace-sample-rate", defaults.Observability.TracingSampleRate, "Fraction of traces sampled")

	root.AddCommand(
		newVersionCmd(),
		newInfoCmd(a),
		newHeadCmd(a),
		newConvertCmd(a),
		newSortCmd(a),
		newFilterCmd(a),
		newMergeCmd(a),
		newGroupByCmd(a),
		newConcatCmd(a),
		newValueCountsCmd(a),
	)
	return root, a
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lesserpandas v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// loadConfig layers defaults, the configuration file, the environment and
// the flags of cmd into one validated Config.
func loadConfig(cmd *cobra.Command, path string) (*config.Config, error) {
	base := config.Default()
	if path != "" {
		if err := config.Load(path, base); err != nil {
			return nil, err
		}
	}
	raw, err := yaml.Marshal(base)
	if err != nil {
		return nil, dferrors.Wrap(err, dferrors.ErrorTypeConfig, "failed to encode configuration")
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return nil, dferrors.Wrap(err, dferrors.ErrorTypeConfig, "failed to read configuration")
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, dferrors.Wrap(err, dferrors.ErrorTypeConfig, "failed to bind flag").
					WithDetail("flag", name)
			}
		}
	}

	cfg := &config.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, dferrors.Wrap(err, dferrors.ErrorTypeConfig, "failed to decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Init(logger.Config{
		Level:       cfg.Log.Level,
		Encoding:    cfg.Log.Encoding,
		Development: cfg.Log.Development,
	}); err != nil {
		return dferrors.Wrap(err, dferrors.ErrorTypeConfig, "failed to initialize logger")
	}
	ctx := context.WithValue(cmd.Context(), logger.CommandKey, cmd.Name())
	a.log = logger.WithContext(ctx).With(zap.String("component", "lesserpandas-cli"))

	metrics.SetEnabled(cfg.Observability.EnableMetrics)
	registerPools()
	if cfg.Observability.EnableTracing {
		a.shutdown, err = observability.InitTracing(observability.TracingConfig{
			ServiceName:    cfg.Observability.ServiceName,
			ServiceVersion: version,
			SamplingRate:   cfg.Observability.TracingSampleRate,
			Writer:         cmd.ErrOrStderr(),
		})
		if err != nil {
			return dferrors.Wrap(err, dferrors.ErrorTypeConfig, "failed to initialize tracing")
		}
	}
	a.ctx, a.span = observability.StartSpan(ctx, "lesserpandas "+cmd.Name())
	return nil
}

// finish ends the command span, flushes traces and dumps metrics.
func (a *app) finish(stderr io.Writer, runErr error) error {
	if a.span != nil {
		a.span.End(runErr)
	}
	if a.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdown(ctx); err != nil && a.log != nil {
			a.log.Warn("failed to flush traces", zap.Error(err))
		}
	}
	if runErr != nil && a.log != nil {
		a.log.Debug("command failed",
			zap.String("error_type", string(dferrors.TypeOf(runErr))),
			zap.Error(runErr))
	}
	_ = logger.Sync()
	if a.dumpMetrics {
		return metrics.WriteText(stderr)
	}
	return nil
}

func registerPools() {
	metrics.RegisterPool("json_buffers", json.BufferStats)
	metrics.RegisterPool("builders_small", func() pool.Stats { return stringpool.BuilderStats(stringpool.Small) })
	metrics.RegisterPool("builders_medium", func() pool.Stats { return stringpool.BuilderStats(stringpool.Medium) })
	metrics.RegisterPool("builders_large", func() pool.Stats { return stringpool.BuilderStats(stringpool.Large) })
}

func (a *app) display() dataframe.DisplayOptions {
	return dataframe.DisplayOptions{
		MaxRows:     a.cfg.Display.MaxRows,
		MaxColWidth: a.cfg.Display.MaxColWidth,
	}
}

// stdinIsPipe reports whether "-" may be read without blocking on a
// terminal.
func stdinIsPipe(cmd *cobra.Command) bool {
	if cmd.InOrStdin() != os.Stdin {
		return true
	}
	fi, err := os.Stdin.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice == 0
}
