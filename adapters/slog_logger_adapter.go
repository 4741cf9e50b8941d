package adapters

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// levelNone sits above every slog level so nothing is emitted.
const levelNone = slog.Level(100)

// SlogLoggerAdapter implements LoggerAdapter on top of log/slog.
// Messages are printf-formatted before being handed to slog.
type SlogLoggerAdapter struct {
	logger *slog.Logger
}

var _ LoggerAdapter = (*SlogLoggerAdapter)(nil)

// NewSlogLoggerAdapter writes text records at or above level to stderr.
func NewSlogLoggerAdapter(level LogLevel) *SlogLoggerAdapter {
	return NewSlogLoggerAdapterWithWriter(os.Stderr, level)
}

// NewSlogLoggerAdapterWithWriter writes text records at or above level to w.
func NewSlogLoggerAdapterWithWriter(w io.Writer, level LogLevel) *SlogLoggerAdapter {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: toSlogLevel(level)})
	return &SlogLoggerAdapter{logger: slog.New(handler).With("component", "ripple")}
}

// WrapSlogLogger adapts an existing slog.Logger.
func WrapSlogLogger(logger *slog.Logger) *SlogLoggerAdapter {
	return &SlogLoggerAdapter{logger: logger}
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	case LogLevelNone:
		return levelNone
	default:
		return slog.LevelWarn
	}
}

func (s *SlogLoggerAdapter) log(level slog.Level, message string, args []any) {
	ctx := context.Background()
	if !s.logger.Enabled(ctx, level) {
		return
	}
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	s.logger.Log(ctx, level, message)
}

func (s *SlogLoggerAdapter) Debug(message string, args ...any) {
	s.log(slog.LevelDebug, message, args)
}

func (s *SlogLoggerAdapter) Info(message string, args ...any) {
	s.log(slog.LevelInfo, message, args)
}

func (s *SlogLoggerAdapter) Warn(message string, args ...any) {
	s.log(slog.LevelWarn, message, args)
}

func (s *SlogLoggerAdapter) Error(message string, args ...any) {
	s.log(slog.LevelError, message, args)
}
