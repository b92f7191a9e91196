package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"docvault/pkg/utilities/timeutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		config   LoggerConfig
		expected zerolog.Level
	}{
		{
			name:     "Default log level when no level specified",
			config:   LoggerConfig{LogLevel: zerolog.NoLevel},
			expected: zerolog.InfoLevel,
		},
		{
			name:     "Debug log level",
			config:   LoggerConfig{LogLevel: zerolog.DebugLevel},
			expected: zerolog.DebugLevel,
		},
		{
			name:     "Error log level",
			config:   LoggerConfig{LogLevel: zerolog.ErrorLevel},
			expected: zerolog.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewFromConfig(tt.config)
			assert.Equal(t, tt.expected, l.zl.GetLevel())
		})
	}
}

func TestLoggerConfigJsonConvertToDomain(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, LoggerConfigJson{LogLevel: "debug"}.ConvertToDomain().LogLevel)
	assert.Equal(t, zerolog.InfoLevel, LoggerConfigJson{LogLevel: "nonsense"}.ConvertToDomain().LogLevel)
}

func TestLoggerWithOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New().WithOutput(&buf)

	l.Info("test message")

	assert.Contains(t, buf.String(), "test message")
}

func TestLoggerWithLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New().WithOutput(&buf).WithLevel(zerolog.ErrorLevel)

	l.Info("info message")
	l.Error(errors.New("test error"), "error message")

	output := buf.String()
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "error message")
	assert.Contains(t, output, "test error")
}

func TestLoggerWithField(t *testing.T) {
	var buf bytes.Buffer
	l := New().WithOutput(&buf).WithField("service", "docvault")

	l.Warnf("uploaded %d files", 3)

	output := buf.String()
	assert.Contains(t, output, `"service":"docvault"`)
	assert.Contains(t, output, "uploaded 3 files")
	assert.Contains(t, output, `"level":"warn"`)
}

func TestLoggerSink(t *testing.T) {
	var buf bytes.Buffer
	l := New().WithOutput(&buf).WithLevel(zerolog.InfoLevel)

	var received []string
	AddSinkToLoggerInstance(l, func(msg string, level zerolog.Level, _ timeutil.TimeUTC) {
		received = append(received, level.String()+":"+msg)
	})

	l.Debug("hidden")
	l.Infof("hello %s", "world")
	l.Error(errors.New("boom"), "failed")

	assert.Equal(t, []string{"info:hello world", "error:failed"}, received)
	assert.False(t, strings.Contains(buf.String(), "hidden"))
}

func TestDefaultLoggerInitializedOnce(t *testing.T) {
	InitDefaultLogger(GlobalLoggerConfig{Args: []LoggerArg{{Key: "service", Value: "first"}}})
	first := Default()
	InitDefaultLogger(GlobalLoggerConfig{Args: []LoggerArg{{Key: "service", Value: "second"}}})

	assert.Same(t, first, Default())
}
