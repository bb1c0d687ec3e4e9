// Package logging provides the structured logger used across the server's
// ambient stack (connection accept/close, shutdown, handler panics). No
// third-party structured-logging library appears in the teacher's go.mod or
// any example repo's own dependency tree (zerolog/zap/logrus only turn up
// under other_examples/manifests/, unrelated reference manifests rather
// than retrieval-pack Go repos) — log/slog is the standard library's
// structured logger and is used here for that reason.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger is the structured logging surface the server depends on. Because
// With returns a Logger, *slog.Logger does not satisfy it directly; the
// constructors below wrap a *slog.Logger in slogLogger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

type slogLogger struct {
	l *slog.Logger
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }
func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

// NewTextLogger returns a Logger writing leveled, key=value text to w.
func NewTextLogger(w io.Writer, level slog.Level) Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &slogLogger{l: slog.New(h)}
}

// NewJSONLogger returns a Logger writing structured JSON lines to w, for
// deployments that ship logs to a collector.
func NewJSONLogger(w io.Writer, level slog.Level) Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &slogLogger{l: slog.New(h)}
}

// Default returns a text logger at Info level writing to stderr, the
// server's out-of-the-box logger when server.New is given a nil Logger.
func Default() Logger {
	return NewTextLogger(os.Stderr, slog.LevelInfo)
}

// noop discards every record; used when logging is explicitly disabled.
type noop struct{}

func (noop) Debug(string, ...any) {}
func (noop) Info(string, ...any)  {}
func (noop) Warn(string, ...any)  {}
func (noop) Error(string, ...any) {}
func (noop) With(...any) Logger   { return noop{} }

// NoOp returns a Logger that discards everything.
func NoOp() Logger { return noop{} }

// contextKey avoids collisions with other packages' context keys.
type contextKey struct{}

// WithContext attaches l to ctx, for handlers that want the connection's
// logger without it being threaded through every call explicitly.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext retrieves the Logger attached by WithContext, or Default if
// none was attached.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(contextKey{}).(Logger); ok {
		return l
	}
	return Default()
}
