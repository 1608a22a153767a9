package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("creates text logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelInfo, Format: LogFormatText, Output: &buf})
		require.NotNil(t, logger)

		logger.Info("slot search finished", "slots", 3)

		assert.Contains(t, buf.String(), "slot search finished")
		assert.Contains(t, buf.String(), "slots=3")
	})

	t.Run("creates JSON logger with service attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{
			Level:          LogLevelInfo,
			Format:         LogFormatJSON,
			Output:         &buf,
			ServiceName:    "rendezvous",
			ServiceVersion: "1.2.0",
		})

		logger.Info("meeting scheduled", "event_id", "evt-1")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "meeting scheduled", entry["msg"])
		assert.Equal(t, "evt-1", entry["event_id"])
		assert.Equal(t, "rendezvous", entry["service"])
		assert.Equal(t, "1.2.0", entry["version"])
	})

	t.Run("respects log level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelWarn, Output: &buf})

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")

		assert.NotContains(t, buf.String(), "debug message")
		assert.NotContains(t, buf.String(), "info message")
		assert.Contains(t, buf.String(), "warn message")
	})

	t.Run("adds ids from context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelInfo, Format: LogFormatJSON, Output: &buf})

		ctx := WithCorrelationID(context.Background(), "corr-123")
		ctx = WithRequestID(ctx, "req-456")
		ctx = WithOperation(ctx, "process_meeting_request")
		logger.InfoContext(ctx, "handled")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "corr-123", entry[CorrelationIDKey])
		assert.Equal(t, "req-456", entry[RequestIDKey])
		assert.Equal(t, "process_meeting_request", entry[OperationKey])
	})
}

func TestDefaultLogConfig(t *testing.T) {
	cfg := DefaultLogConfig()

	assert.Equal(t, LogLevelInfo, cfg.Level)
	assert.Equal(t, LogFormatText, cfg.Format)
	assert.Equal(t, "rendezvous", cfg.ServiceName)
}

func TestProductionLogConfig(t *testing.T) {
	cfg := ProductionLogConfig()

	assert.Equal(t, LogFormatJSON, cfg.Format)
	assert.True(t, cfg.AddSource)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLoggerFromEnv(t *testing.T) {
	t.Setenv("RENDEZVOUS_ENV", "production")
	t.Setenv("RENDEZVOUS_LOG_LEVEL", "debug")

	logger := LoggerFromEnv()
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestLogDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	LogDuration(context.Background(), logger, "free_busy", time.Now().Add(-50*time.Millisecond), "day", 2)

	assert.Contains(t, buf.String(), "operation completed")
	assert.Contains(t, buf.String(), "operation=free_busy")
	assert.Contains(t, buf.String(), "duration_ms")
	assert.Contains(t, buf.String(), "day=2")
}

func TestContextHelpers(t *testing.T) {
	t.Run("generates ids when empty", func(t *testing.T) {
		ctx := NewRequestContext(context.Background(), "")

		assert.NotEmpty(t, CorrelationIDFromContext(ctx))
		assert.NotEmpty(t, RequestIDFromContext(ctx))
	})

	t.Run("keeps parent correlation id", func(t *testing.T) {
		ctx := NewRequestContext(context.Background(), "parent")

		assert.Equal(t, "parent", CorrelationIDFromContext(ctx))
	})

	t.Run("nil context yields empty values", func(t *testing.T) {
		//nolint:staticcheck // nil context is handled explicitly
		assert.Empty(t, CorrelationIDFromContext(nil))
	})
}
