// Package logger is the structured logger of the gateway, built on log/slog.
//
// Request handlers log through WithCtx so every line carries the request
// and device ids:
//
//	logger.WithCtx(r.Context()).Info("post published", "post_id", p.ID)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// L is the base logger.
var L = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

// Setup replaces L. Production environments log JSON at info level, every
// other environment logs text at debug level. Extra handlers (such as the
// Mongo sink) receive a copy of every record.
func Setup(env string, w io.Writer, extra ...slog.Handler) *slog.Logger {
	var base slog.Handler
	switch env {
	case "production", "prod":
		base = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		base = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	if len(extra) > 0 {
		base = NewMultiHandler(append([]slog.Handler{base}, extra...)...)
	}

	L = slog.New(base)
	slog.SetDefault(L)
	return L
}

type ctxKey struct{}

// WithCtx returns the request logger stored by InjectLogger, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a pre-tagged logger in ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
