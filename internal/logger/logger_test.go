package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		"info":   zapcore.InfoLevel,
		" WARN ": zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
		"panic":  zapcore.PanicLevel,
		"fatal":  zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestNewWithFormat accepts the two encoders and rejects others.
func TestNewWithFormat(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"", "console", "JSON"} {
		l, err := NewWithFormat(format, zapcore.InfoLevel)
		require.NoError(t, err)
		require.NotNil(t, l)
		require.True(t, ValidFormat(format))
	}

	_, err := NewWithFormat("xml", zapcore.InfoLevel)
	require.Error(t, err)
	require.False(t, ValidFormat("xml"))
}

// TestContextHelpers checks that names and fields travel with the context.
func TestContextHelpers(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())
	ctx = WithName(ctx, "controller")
	ctx = WithKV(ctx, "channel", "white")

	InfoKV(ctx, "level changed", "intensity", 127)
	Debugf(ctx, "tick %d", 1)

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "controller", entries[0].LoggerName)
	require.Equal(t, "level changed", entries[0].Message)
	require.Equal(t, "white", entries[0].ContextMap()["channel"])
	require.EqualValues(t, 127, entries[0].ContextMap()["intensity"])
	require.Equal(t, "tick 1", entries[1].Message)
}

// TestFromContext_FallsBackToGlobal returns the global logger for bare contexts.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestBuild honours the level and rejects unknown names.
func TestBuild(t *testing.T) {
	t.Parallel()

	l, err := Build("warn", "json")
	require.NoError(t, err)
	require.False(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
	require.True(t, l.Desugar().Core().Enabled(zapcore.WarnLevel))

	_, err = Build("loud", "")
	require.Error(t, err)

	_, err = Build("", "xml")
	require.Error(t, err)
}

// TestEnsureLevel lowers the threshold of a quiet logger and keeps verbose ones.
func TestEnsureLevel(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	Info(ctx, "dropped")

	loud := EnsureLevel(ctx, zapcore.InfoLevel)
	Info(loud, "kept")
	Debugf(loud, "still dropped")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "kept", entries[0].Message)

	verbose := ToContext(context.Background(), zap.New(core).Sugar().WithOptions(WithLevel(zapcore.DebugLevel)))
	require.Same(t, FromContext(verbose), FromContext(EnsureLevel(verbose, zapcore.InfoLevel)))
}
