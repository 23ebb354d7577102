package logger

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/lmittmann/tint"
)

// SlogLogger renders colorized human-readable lines through a tint handler.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates a tint-formatted slog logger writing to w.
func NewSlogLogger(w io.Writer, level LogLevel) *SlogLogger {
	return &SlogLogger{
		logger: slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level.slog(),
			TimeFormat: time.DateTime,
			NoColor:    true,
		})),
	}
}

func attrs(fields []map[string]interface{}) []any {
	if len(fields) == 0 || len(fields[0]) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields[0]))
	for k := range fields[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, fields[0][k]))
	}
	return out
}

// Debug logs a debug message.
func (l *SlogLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.logger.DebugContext(ctx, msg, attrs(fields)...)
}

// Info logs a info message.
func (l *SlogLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.logger.InfoContext(ctx, msg, attrs(fields)...)
}

// Warn logs a warning message.
func (l *SlogLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.logger.WarnContext(ctx, msg, attrs(fields)...)
}

// Error logs an error message with the error attached.
func (l *SlogLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	l.logger.ErrorContext(ctx, msg, append(attrs(fields), tint.Err(err))...)
}
