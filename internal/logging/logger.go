// Package logging provides request-scoped structured logging.
package logging

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type requestIDKey struct{}

// Setup configures the process-wide logrus logger.
func Setup(env, level string, out io.Writer) {
	if out != nil {
		logrus.SetOutput(out)
	}
	if env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// WithRequestID stores a request ID in ctx.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request ID from ctx, or "" when unset.
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger provides structured logging for services
type Logger struct {
	entry *logrus.Entry
}

// NewLogger creates a logger with request context
func NewLogger(ctx context.Context) *Logger {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &Logger{entry: logrus.WithField("request_id", requestID)}
}

// With returns a logger carrying an extra field.
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// LogError logs an error with context
func (l *Logger) LogError(operation string, err error) {
	l.entry.WithField("operation", operation).WithError(err).Error("operation failed")
}

// LogErrorf logs a formatted error with context
func (l *Logger) LogErrorf(operation string, format string, args ...any) {
	l.entry.WithField("operation", operation).Errorf(format, args...)
}

// LogInfo logs an info message with context
func (l *Logger) LogInfo(operation string, message string) {
	l.entry.WithField("operation", operation).Info(message)
}

// LogInfof logs a formatted info message with context
func (l *Logger) LogInfof(operation string, format string, args ...any) {
	l.entry.WithField("operation", operation).Infof(format, args...)
}

// LogWarn logs a warning with context
func (l *Logger) LogWarn(operation string, message string) {
	l.entry.WithField("operation", operation).Warn(message)
}

// LogWarnf logs a formatted warning with context
func (l *Logger) LogWarnf(operation string, format string, args ...any) {
	l.entry.WithField("operation", operation).Warnf(format, args...)
}

// LogDebugf logs a formatted debug message with context
func (l *Logger) LogDebugf(operation string, format string, args ...any) {
	l.entry.WithField("operation", operation).Debugf(format, args...)
}
