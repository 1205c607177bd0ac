package logging

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWriter(&buf, level), &buf
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug allowed at debug", LevelDebug, LevelDebug, true},
		{"error allowed at debug", LevelDebug, LevelError, true},
		{"debug blocked at info", LevelInfo, LevelDebug, false},
		{"info allowed at info", LevelInfo, LevelInfo, true},
		{"info blocked at warn", LevelWarn, LevelInfo, false},
		{"warn allowed at warn", LevelWarn, LevelWarn, true},
		{"warn blocked at error", LevelError, LevelWarn, false},
		{"error allowed at error", LevelError, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(tt.minLevel)

			switch tt.logLevel {
			case LevelDebug:
				logger.Debug("move submitted")
			case LevelInfo:
				logger.Info("move submitted")
			case LevelWarn:
				logger.Warn("move submitted")
			case LevelError:
				logger.Error("move submitted")
			}

			if tt.shouldLog {
				assert.Contains(t, buf.String(), "move submitted")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestLoggerFieldsAreSorted(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	logger.WithFields(map[string]interface{}{
		"puzzle": "00sHx",
		"cycle":  2,
	}).Info("puzzle solved", "elapsed", 14)

	assert.Equal(t, "INFO: puzzle solved | cycle=2 elapsed=14 puzzle=00sHx\n", buf.String())
}

func TestLoggerWithChaining(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	session := logger.With("session", "abc123")
	session.With("puzzle", "00sHx").Warn("save failed", "error", errors.New("disk full"))

	output := buf.String()
	assert.Contains(t, output, "WARN: save failed")
	assert.Contains(t, output, "session=abc123")
	assert.Contains(t, output, "puzzle=00sHx")
	assert.Contains(t, output, `error="disk full"`)

	buf.Reset()
	logger.Info("original logger")
	assert.NotContains(t, buf.String(), "session=")
}

func TestLoggerNilIsSilent(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() { logger.Warn("nothing") })
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"simple string", "e2e4", "e2e4"},
		{"empty string", "", `""`},
		{"string with spaces", "cannot start", `"cannot start"`},
		{"integer", 42, "42"},
		{"error", errors.New("oops"), `"oops"`},
		{"stringer", LevelInfo, "INFO"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatValue(tt.input))
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelWarn, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelWarn, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(log.New(&buf, "", 0))
	SetLevel(LevelWarn)
	t.Cleanup(func() { SetLevel(LevelWarn) })

	Debug("debug message")
	Info("info message")
	assert.Empty(t, buf.String())

	Warn("warn message")
	assert.True(t, strings.HasPrefix(buf.String(), "WARN: warn message"))

	buf.Reset()
	With("component", "trainer").Error("error message")
	assert.Contains(t, buf.String(), "component=trainer")
	assert.Same(t, defaultLogger, Default())
}
