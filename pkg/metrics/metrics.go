// Package metrics records Prometheus metrics for table operations: how many
// times each operation ran, how it ended, how long it took and how many rows
// it produced.
//
// # Basic Usage
//
//	start := time.Now()
//	out, err := left.Merge(right, dataframe.Inner, "id")
//	metrics.Observe("merge", start, rowsOf(out), err)
//
// Recording can be switched off with SetEnabled(false); the collectors stay
// registered so a later SetEnabled(true) resumes recording.
package metrics

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const namespace = "lesserpandas"

var enabled atomic.Bool

func init() {
	enabled.Store(true)
}

// SetEnabled turns recording on or off.
func SetEnabled(on bool) {
	enabled.Store(on)
}

// Enabled reports whether recording is on.
func Enabled() bool {
	return enabled.Load()
}

var (
	// OperationsTotal counts completed operations.
	// Labels: operation (merge/groupby/sort/...), status (success/failure)
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of table operations",
		},
		[]string{"operation", "status"},
	)

	// OperationLatency tracks operation latency in nanoseconds.
	OperationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_nanoseconds",
			Help:      "Table operation latency in nanoseconds",
			Buckets: []float64{
				1000,  // 1μs
				10000, // 10μs
				1e5,   // 100μs
				1e6,   // 1ms
				1e7,   // 10ms
				1e8,   // 100ms
				1e9,   // 1s
			},
		},
		[]string{"operation"},
	)

	// RowsProduced counts rows in operation results.
	RowsProduced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_produced_total",
			Help:      "Total number of rows produced by table operations",
		},
		[]string{"operation"},
	)

	// RowsIO counts rows read or written by the I/O layer.
	// Labels: format (csv/json/ndjson/arrow/avro), direction (read/write)
	RowsIO = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "io_rows_total",
			Help:      "Total number of rows read or written",
		},
		[]string{"format", "direction"},
	)
)

// Observe records one finished operation.
func Observe(operation string, start time.Time, rows int, err error) {
	if !enabled.Load() {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	OperationsTotal.WithLabelValues(operation, status).Inc()
	OperationLatency.WithLabelValues(operation).Observe(float64(time.Since(start).Nanoseconds()))
	if err == nil && rows > 0 {
		RowsProduced.WithLabelValues(operation).Add(float64(rows))
	}
}

// ObserveIO records rows moved by a reader or writer.
func ObserveIO(format, direction string, rows int) {
	if !enabled.Load() || rows <= 0 {
		return
	}
	RowsIO.WithLabelValues(format, direction).Add(float64(rows))
}

// Timer measures the duration of an operation from its creation.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop records the operation under the timer's name and returns the
// elapsed duration.
func (t *Timer) Stop(rows int, err error) time.Duration {
	Observe(t.name, t.start, rows, err)
	return time.Since(t.start)
}

// WriteText dumps every lesserpandas metric family in the Prometheus text
// exposition format.
func WriteText(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if len(mf.GetName()) < len(namespace) || mf.GetName()[:len(namespace)] != namespace {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
