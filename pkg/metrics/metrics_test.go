package metrics

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nash-dir/lesserpandas/pkg/pool"
)

func TestObserveCountsStatus(t *testing.T) {
	before := testutil.ToFloat64(OperationsTotal.WithLabelValues("test_op", "success"))
	failedBefore := testutil.ToFloat64(OperationsTotal.WithLabelValues("test_op", "failure"))
	rowsBefore := testutil.ToFloat64(RowsProduced.WithLabelValues("test_op"))

	Observe("test_op", time.Now(), 5, nil)
	Observe("test_op", time.Now(), 3, errors.New("boom"))

	assert.Equal(t, before+1, testutil.ToFloat64(OperationsTotal.WithLabelValues("test_op", "success")))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(OperationsTotal.WithLabelValues("test_op", "failure")))
	assert.Equal(t, rowsBefore+5, testutil.ToFloat64(RowsProduced.WithLabelValues("test_op")))
}

func TestDisabledSkipsRecording(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	before := testutil.ToFloat64(OperationsTotal.WithLabelValues("disabled_op", "success"))
	Observe("disabled_op", time.Now(), 1, nil)
	ObserveIO("csv", "read", 10)
	assert.Equal(t, before, testutil.ToFloat64(OperationsTotal.WithLabelValues("disabled_op", "success")))
	assert.False(t, Enabled())
}

func TestTimerAndWriteText(t *testing.T) {
	timer := NewTimer("timer_op")
	d := timer.Stop(2, nil)
	assert.GreaterOrEqual(t, d, time.Duration(0))

	ObserveIO("csv", "read", 4)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, "lesserpandas_operations_total")
	assert.Contains(t, out, `operation="timer_op"`)
	assert.Contains(t, out, "lesserpandas_io_rows_total")
}

func TestRegisterPool(t *testing.T) {
	p := pool.New(func() *bytes.Buffer { return new(bytes.Buffer) }, nil)
	p.Get()
	RegisterPool("test_buffers", p.Stats)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, "lesserpandas_pool_objects")
	assert.Contains(t, out, `lesserpandas_pool_objects{pool="test_buffers",stat="in_use"} 1`)
	assert.Contains(t, out, `lesserpandas_pool_objects{pool="test_buffers",stat="misses"} 1`)

	RegisterPool("test_buffers", func() pool.Stats { return pool.Stats{} })
	buf.Reset()
	require.NoError(t, WriteText(&buf))
	assert.Contains(t, buf.String(), `lesserpandas_pool_objects{pool="test_buffers",stat="in_use"} 0`)
}
