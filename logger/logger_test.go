package logger_test

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/clerksync/logger"
)

func TestSyncLoggerLevels(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	l := logger.New(
		logger.WithLogger(log.New(b, "", 0)),
		logger.WithLevel(logger.LogLevelWarn),
	)

	// Act
	l.Debug("debugging", nil)
	l.Info("informing", nil)

	// Assert
	require.Zero(t, b.Len())

	// Act
	l.Warn("warning", nil)
	l.Error("erroring", nil)

	// Assert
	out := b.String()
	require.Contains(t, out, "warning")
	require.Contains(t, out, "erroring")
	require.Equal(t, logger.LogLevelWarn, l.LogLevel())
}

func TestSyncLoggerLogContext(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	l := logger.New(
		logger.WithLogger(log.New(b, "", 0)),
		logger.WithLevel(logger.LogLevelDebug),
	)

	// Act
	l.Error("kaboom", &logger.LogContext{Data: map[string]any{"uid": "abc-123"}})

	// Assert
	out := b.String()
	require.Contains(t, out, "kaboom")
	require.Contains(t, out, "log_context:")
	require.Contains(t, out, "abc-123")
}

func TestNewLogLevel(t *testing.T) {
	tcs := []struct {
		val      string
		expected logger.LogLevel
	}{
		{"DEBUG", logger.LogLevelDebug},
		{"INFO", logger.LogLevelInfo},
		{"WARN", logger.LogLevelWarn},
		{"ERROR", logger.LogLevelError},
		{"FATAL", logger.LogLevelFatal},
		{"whatever", logger.LogLevelUnk},
	}

	for _, tc := range tcs {
		t.Run(tc.val, func(t *testing.T) {
			require.Equal(t, tc.expected, logger.NewLogLevel(tc.val))
		})
	}
}
