// Package lesserpandas is an in-memory columnar table engine: labeled
// one-dimensional columns (Series) and ordered collections of equal-length
// columns sharing one row index (DataFrame), with selection, filtering,
// row and label indexing, joins, grouping, sorting and concatenation.
//
// # Architecture
//
// Every cell is a value.Value, a small tagged variant that is null, an
// integer, a float, text or a boolean. Columns are plain slices of values
// keyed by name; a DataFrame keeps its column order, its index labels and
// its row count side by side and never lets them disagree.
//
// Hash based operations (merge, groupby) bucket rows by xxhash of the
// normalized key values, so 1 and 1.0 meet in one bucket while true does
// not join 1.
//
// # Quick Start
//
//	import (
//	    "github.com/nash-dir/lesserpandas/pkg/dataframe"
//	    "github.com/nash-dir/lesserpandas/pkg/frameio"
//	)
//
//	df, err := frameio.ReadFile("weather.csv.gz", frameio.Options{})
//	if err != nil {
//	    return err
//	}
//	g, err := df.GroupBy("city")
//	if err != nil {
//	    return err
//	}
//	means, err := g.Mean()
//	if err != nil {
//	    return err
//	}
//	fmt.Println(means)
//
// # Key Packages
//
//	pkg/value         - Scalar cell values, comparison and arithmetic
//	pkg/series        - Labeled columns, elementwise ops and reducers
//	pkg/dataframe     - Tables, indexers, merge, groupby, sort, concat
//	pkg/frameio       - CSV, JSON, NDJSON, Arrow and Avro files
//	pkg/compression   - gzip, zstd, snappy, s2 and lz4 streams
//	pkg/json          - Pooled, order-preserving JSON objects
//	pkg/dferrors      - Structured error kinds
//	pkg/config        - YAML configuration with ${VAR} substitution
//	pkg/logger        - Structured logging
//	pkg/metrics       - Prometheus operation metrics
//	pkg/observability - OpenTelemetry tracing
//
// # Command Line
//
// cmd/lesserpandas exposes the engine over files:
//
//	lesserpandas info events.arrow
//	lesserpandas sort people.csv --by age --desc
//	lesserpandas merge left.csv right.ndjson --on id --how left -o joined.avro
//	lesserpandas groupby sales.csv.zst --by region --agg amount:sum
//
// Settings are read from a YAML file, LESSERPANDAS_* environment variables
// and flags, in increasing priority.
package lesserpandas
