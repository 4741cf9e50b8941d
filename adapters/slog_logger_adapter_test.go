package adapters

import (
	"bytes"
	"strings"
	"testing"
)

func TestSlogLoggerAdapter(t *testing.T) {
	t.Run("should format messages with args", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewSlogLoggerAdapterWithWriter(&buf, LogLevelDebug)
		logger.Debug("debug message %s", "test")

		out := buf.String()
		if !strings.Contains(out, "debug message test") {
			t.Errorf("expected formatted message, got %q", out)
		}
		if !strings.Contains(out, "component=ripple") {
			t.Errorf("expected component attribute, got %q", out)
		}
	})

	t.Run("should keep literal percent signs without args", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewSlogLoggerAdapterWithWriter(&buf, LogLevelDebug)
		logger.Info("100% done")

		if !strings.Contains(buf.String(), "100% done") {
			t.Errorf("expected literal message, got %q", buf.String())
		}
	})

	t.Run("should respect log levels", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewSlogLoggerAdapterWithWriter(&buf, LogLevelError)
		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		if buf.Len() != 0 {
			t.Errorf("expected no output below error level, got %q", buf.String())
		}

		logger.Error("error message")
		if !strings.Contains(buf.String(), "error message") {
			t.Errorf("expected error output, got %q", buf.String())
		}
	})

	t.Run("should handle none level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewSlogLoggerAdapterWithWriter(&buf, LogLevelNone)
		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LogLevelDebug,
		" INFO ":  LogLevelInfo,
		"warn":    LogLevelWarn,
		"Error":   LogLevelError,
		"none":    LogLevelNone,
		"verbose": LogLevelWarn,
		"":        LogLevelWarn,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
