// Package session gives every browser a stable device id carried in a
// signed cookie. All per-device state is keyed by that id.
//
//	r.Use(session.Middleware(signer, session.DefaultOptions()))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    device := session.DeviceID(r.Context())
//	}
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/souqhup/config"
	"github.com/shashiranjanraj/souqhup/pkg/auth"
	"github.com/shashiranjanraj/souqhup/pkg/logger"
)

// Options configures the device cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions reads the cookie name and lifetime from config. The
// cookie is only marked Secure in production.
func DefaultOptions() Options {
	env := config.AppEnv()
	return Options{
		CookieName: config.SessionCookie(),
		TTL:        config.SessionTTL(),
		HTTPOnly:   true,
		Secure:     env == "production" || env == "prod",
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

type ctxKey struct{}

// WithDevice stores id in ctx.
func WithDevice(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// DeviceID returns the device id of the request, or "".
func DeviceID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Middleware resolves the device of every request. A missing, expired or
// tampered cookie mints a new device. The request logger is tagged with
// the device id.
func Middleware(signer *auth.Signer, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(opts.CookieName); err == nil {
				id, _ = signer.Parse(c.Value)
			}

			if id == "" {
				id = uuid.NewString()
				token, err := signer.Issue(id)
				if err != nil {
					logger.WithCtx(r.Context()).Error("session: issue device token", "error", err)
				} else {
					http.SetCookie(w, &http.Cookie{
						Name:     opts.CookieName,
						Value:    token,
						Path:     opts.Path,
						MaxAge:   int(opts.TTL.Seconds()),
						HttpOnly: opts.HTTPOnly,
						Secure:   opts.Secure,
						SameSite: opts.SameSite,
					})
				}
			}

			ctx := WithDevice(r.Context(), id)
			ctx = logger.InjectLogger(ctx, logger.WithCtx(ctx).With("device_id", id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
