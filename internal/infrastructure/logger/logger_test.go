package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("creates json logger", func(t *testing.T) {
		l := New(Options{Level: "info", Format: "json", Output: "stdout"})
		require.NotNil(t, l)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("creates console logger at debug", func(t *testing.T) {
		l := New(Options{Level: "debug", Format: "console", Output: "stderr"})
		require.NotNil(t, l)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("writes to file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		l := New(Options{Level: "info", Format: "json", Output: path})
		require.NotNil(t, l)

		l.Info("hello")
		require.NoError(t, l.Sync())

		assert.FileExists(t, path)
	})

	t.Run("empty options fall back to info stdout", func(t *testing.T) {
		l := New(Options{})
		require.NotNil(t, l)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})
}

func TestNewForEnvironment(t *testing.T) {
	t.Run("production logs at info", func(t *testing.T) {
		l := NewForEnvironment("production")
		require.NotNil(t, l)
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("development logs at debug", func(t *testing.T) {
		l := NewForEnvironment("development")
		require.NotNil(t, l)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"INFO", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run("level "+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}
