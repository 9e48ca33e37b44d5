package spec

import (
	"context"
	"log/slog"
)

// Logger is the interface that oasassert uses for structured logging.
//
// The interface is designed to be minimal yet compatible with popular logging
// libraries including log/slog, zap, and zerolog. It uses variadic key-value
// pairs for structured attributes, following the same convention as log/slog.
//
// Implementations should treat attrs as alternating key-value pairs:
//
//	logger.Debug("resolved reference", "ref", "#/components/schemas/Pet", "depth", 3)
type Logger interface {
	// Debug logs a message at debug level with optional key-value attributes.
	Debug(msg string, attrs ...any)
	// Info logs a message at info level with optional key-value attributes.
	Info(msg string, attrs ...any)
	// Warn logs a message at warn level with optional key-value attributes.
	Warn(msg string, attrs ...any)
	// Error logs a message at error level with optional key-value attributes.
	Error(msg string, attrs ...any)
	// With returns a Logger that includes the given attributes in all messages.
	With(attrs ...any) Logger
}

// NopLogger is a Logger that discards all messages. It is used when no logger
// is configured.
type NopLogger struct{}

// Debug discards the message.
func (NopLogger) Debug(string, ...any) {}

// Info discards the message.
func (NopLogger) Info(string, ...any) {}

// Warn discards the message.
func (NopLogger) Warn(string, ...any) {}

// Error discards the message.
func (NopLogger) Error(string, ...any) {}

// With returns the receiver unchanged.
func (n NopLogger) With(...any) Logger { return n }

// SlogAdapter adapts a *slog.Logger to the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps a standard library slog.Logger.
//
//	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
//	doc, err := spec.Load("api.yaml", spec.WithLogger(spec.NewSlogAdapter(slog.New(handler))))
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Debug logs at debug level.
func (a *SlogAdapter) Debug(msg string, attrs ...any) {
	a.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, argsToAttrs(attrs)...)
}

// Info logs at info level.
func (a *SlogAdapter) Info(msg string, attrs ...any) {
	a.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, argsToAttrs(attrs)...)
}

// Warn logs at warn level.
func (a *SlogAdapter) Warn(msg string, attrs ...any) {
	a.logger.LogAttrs(context.Background(), slog.LevelWarn, msg, argsToAttrs(attrs)...)
}

// Error logs at error level.
func (a *SlogAdapter) Error(msg string, attrs ...any) {
	a.logger.LogAttrs(context.Background(), slog.LevelError, msg, argsToAttrs(attrs)...)
}

// With returns an adapter that includes the given attributes in all messages.
func (a *SlogAdapter) With(attrs ...any) Logger {
	return &SlogAdapter{logger: a.logger.With(attrs...)}
}

// argsToAttrs converts alternating key-value pairs to slog attributes.
// Non-string keys and trailing values are collected under "!BADKEY",
// matching slog's own convention.
func argsToAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || i+1 >= len(args) {
			attrs = append(attrs, slog.Any("!BADKEY", args[i]))
			continue
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}
