package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	_, err := newLogger(Config{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewLoggerDefaults(t *testing.T) {
	l, err := newLogger(Config{Level: "debug", Encoding: "console"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestReplaceAndWithContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))
	defer restore()

	ctx := context.WithValue(context.Background(), CommandKey, "merge")
	ctx = context.WithValue(ctx, SourceKey, "left.csv")
	WithContext(ctx).Info("loaded")
	Debug("plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "loaded", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "merge", fields["command"])
	assert.Equal(t, "left.csv", fields["source"])
	assert.Equal(t, "plain", entries[1].Message)
}
