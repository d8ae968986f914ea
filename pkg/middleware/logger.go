package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shashiranjanraj/souqhup/pkg/logger"
	"github.com/shashiranjanraj/souqhup/pkg/reqid"
)

// Logger writes one access line per request and stores a logger tagged
// with the request id in the context. Server errors log at error level and
// client errors at warn. Install it after reqid.Middleware.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqLog := logger.WithCtx(r.Context()).With("request_id", reqid.FromCtx(r.Context()))
		r = r.WithContext(logger.InjectLogger(r.Context(), reqLog))

		rw := NewStatusWriter(w)
		next.ServeHTTP(rw, r)

		level := slog.LevelInfo
		switch {
		case rw.Status >= 500:
			level = slog.LevelError
		case rw.Status >= 400:
			level = slog.LevelWarn
		}
		reqLog.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.Status,
			"duration", time.Since(start).String(),
			"ip", r.RemoteAddr,
		)
	})
}
