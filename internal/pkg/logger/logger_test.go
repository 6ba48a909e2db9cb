package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			l := NewLogger(env)
			require.NotNil(t, l)
			l.Info("test message")
		})
	}
}

func TestNewLogger_WithLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")

	l := NewLogger("development")

	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))
}

func TestNewLogger_WithInvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "invalid_level")

	l := NewLogger("development")

	require.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
}

func TestSetAndHelpers(t *testing.T) {
	original := Get()
	defer Set(original)

	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core))

	Debug("debug")
	Info("info", zap.String("key", "value"))
	Warn("warn")
	Error("error")
	With(zap.Int("n", 1)).Info("with")

	require.Equal(t, 5, logs.Len())
	assert.Equal(t, "value", logs.All()[1].ContextMap()["key"])
	assert.EqualValues(t, 1, logs.All()[4].ContextMap()["n"])
	assert.NotPanics(t, func() { _ = Sync() })
}

func TestNewLoggerWithLevel(t *testing.T) {
	l := NewLoggerWithLevel("production", "error")

	assert.False(t, l.Core().Enabled(zap.WarnLevel))
	assert.True(t, l.Core().Enabled(zap.ErrorLevel))
}
