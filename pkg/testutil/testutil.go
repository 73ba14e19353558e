// Package testutil provides testing utilities for lesserpandas
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/nash-dir/lesserpandas/pkg/dataframe"
	"github.com/nash-dir/lesserpandas/pkg/logger"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// UseTestLogger routes the global logger to the test output until the test
// completes.
func UseTestLogger(t *testing.T) *zap.Logger {
	t.Helper()
	l := zaptest.NewLogger(t, zaptest.Level(zap.DebugLevel))
	restore := logger.Replace(l)
	t.Cleanup(restore)
	return l
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// Frame builds a table from columns and fails the test on error.
func Frame(t *testing.T, cols ...dataframe.ColumnData) *dataframe.DataFrame {
	t.Helper()
	df, err := dataframe.New(cols...)
	require.NoError(t, err)
	return df
}

// Weather is a small table with a text key, a float column with a null and
// a repeated key, used by tests that group, sort or merge.
func Weather(t *testing.T) *dataframe.DataFrame {
	return Frame(t,
		dataframe.Col("city", []string{"oslo", "lima", "oslo", "lima"}),
		dataframe.Col("temp", []interface{}{4.0, 19.0, 7.0, nil}),
		dataframe.Col("day", []int{1, 1, 2, 2}),
	)
}

// WriteFile writes content to name inside dir and returns the path.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

// AssertFrameEqual fails the test when the tables differ in columns,
// index or values, printing both.
func AssertFrameEqual(t *testing.T, want, got *dataframe.DataFrame) bool {
	t.Helper()
	return assert.True(t, want.Equal(got), "tables differ:\nwant\n%s\ngot\n%s", want, got)
}
