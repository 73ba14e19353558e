// Package config provides the configuration for lesserpandas tools. A
// single Config structure groups every tunable into sections:
//   - Log: level, encoding and development mode of the zap logger
//   - IO: CSV parsing, JSON framing and compression of table files
//   - Display: limits of the text rendering of tables
//   - Observability: Prometheus metrics and OpenTelemetry tracing
//
// Example usage:
//
//	cfg := config.Default()
//	cfg.Display.MaxRows = 50
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"unicode/utf8"

	"github.com/nash-dir/lesserpandas/pkg/dferrors"
)

// Config is the complete tool configuration.
type Config struct {
	// Log configures the global logger
	Log LogConfig `yaml:"log" json:"log" mapstructure:"log"`

	// IO configures reading and writing table files
	IO IOConfig `yaml:"io" json:"io" mapstructure:"io"`

	// Display bounds printed tables
	Display DisplayConfig `yaml:"display" json:"display" mapstructure:"display"`

	// Observability settings for monitoring and debugging
	Observability ObservabilityConfig `yaml:"observability" json:"observability" mapstructure:"observability"`
}

// LogConfig mirrors logger.Config.
type LogConfig struct {
	Level       string `yaml:"level" json:"level" mapstructure:"level"`
	Encoding    string `yaml:"encoding" json:"encoding" mapstructure:"encoding"`
	Development bool   `yaml:"development" json:"development" mapstructure:"development"`
}

// IOConfig contains settings for table files.
type IOConfig struct {
	// CSVDelimiter is a single character. Empty means ',', or a tab for
	// .tsv files.
	CSVDelimiter string `yaml:"csv_delimiter" json:"csv_delimiter" mapstructure:"csv_delimiter"`
	// CSVHeader reports whether CSV files carry a header line
	CSVHeader bool `yaml:"csv_header" json:"csv_header" mapstructure:"csv_header"`
	// InferTypes parses CSV cells as numbers and bools when they look like one
	InferTypes bool `yaml:"infer_types" json:"infer_types" mapstructure:"infer_types"`
	// NullValues are CSV cells read as null
	NullValues []string `yaml:"null_values" json:"null_values" mapstructure:"null_values"`
	// JSONPretty writes one JSON array element per line
	JSONPretty bool `yaml:"json_pretty" json:"json_pretty" mapstructure:"json_pretty"`
	// Compression forces a codec for written files: none, gzip, zstd, snappy, s2 or lz4.
	// Empty means detect from the file extension.
	Compression string `yaml:"compression" json:"compression" mapstructure:"compression"`
	// CompressionLevel is fastest, default, better or best
	CompressionLevel string `yaml:"compression_level" json:"compression_level" mapstructure:"compression_level"`
	// ArrowBatchSize bounds Arrow record batches
	ArrowBatchSize int `yaml:"arrow_batch_size" json:"arrow_batch_size" mapstructure:"arrow_batch_size"`
	// AvroCodec is the Avro block codec: null, deflate or snappy
	AvroCodec string `yaml:"avro_codec" json:"avro_codec" mapstructure:"avro_codec"`
}

// DisplayConfig bounds the text rendering of tables.
type DisplayConfig struct {
	MaxRows     int `yaml:"max_rows" json:"max_rows" mapstructure:"max_rows"`
	MaxColWidth int `yaml:"max_col_width" json:"max_col_width" mapstructure:"max_col_width"`
}

// ObservabilityConfig contains metrics and tracing switches.
type ObservabilityConfig struct {
	EnableMetrics     bool    `yaml:"enable_metrics" json:"enable_metrics" mapstructure:"enable_metrics"`
	EnableTracing     bool    `yaml:"enable_tracing" json:"enable_tracing" mapstructure:"enable_tracing"`
	TracingSampleRate float64 `yaml:"tracing_sample_rate" json:"tracing_sample_rate" mapstructure:"tracing_sample_rate"`
	ServiceName       string  `yaml:"service_name" json:"service_name" mapstructure:"service_name"`
}

// Default returns a configuration with every section filled in.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:    "warn",
			Encoding: "console",
		},
		IO: IOConfig{
			CSVHeader:        true,
			InferTypes:       true,
			NullValues:       []string{""},
			CompressionLevel: "default",
			ArrowBatchSize:   64 * 1024,
			AvroCodec:        "null",
		},
		Display: DisplayConfig{
			MaxRows:     20,
			MaxColWidth: 30,
		},
		Observability: ObservabilityConfig{
			EnableMetrics:     true,
			EnableTracing:     false,
			TracingSampleRate: 1.0,
			ServiceName:       "lesserpandas",
		},
	}
}

// Validate checks value ranges. It does not check that codec names exist;
// the packages that use them do.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return dferrors.Newf(dferrors.ErrorTypeConfig, "log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		return dferrors.Newf(dferrors.ErrorTypeConfig, "log.encoding must be json or console, got %q", c.Log.Encoding)
	}
	if c.IO.CSVDelimiter != "" && utf8.RuneCountInString(c.IO.CSVDelimiter) != 1 {
		return dferrors.Newf(dferrors.ErrorTypeConfig, "io.csv_delimiter must be a single character, got %q", c.IO.CSVDelimiter)
	}
	if c.IO.ArrowBatchSize < 0 {
		return dferrors.New(dferrors.ErrorTypeConfig, "io.arrow_batch_size cannot be negative")
	}
	if c.Display.MaxRows < 0 || c.Display.MaxColWidth < 0 {
		return dferrors.New(dferrors.ErrorTypeConfig, "display limits cannot be negative")
	}
	if r := c.Observability.TracingSampleRate; r < 0 || r > 1 {
		return dferrors.Newf(dferrors.ErrorTypeConfig, "observability.tracing_sample_rate must be within [0, 1], got %g", r)
	}
	return nil
}

// Delimiter returns the CSV delimiter as a rune, ',' when unset.
func (c *IOConfig) Delimiter() rune {
	if c.CSVDelimiter == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(c.CSVDelimiter)
	return r
}
