// Package kernel builds the gateway's HTTP handler: the global middleware
// stack, operational endpoints and the API routes.
package kernel

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/souqhup/pkg/auth"
	"github.com/shashiranjanraj/souqhup/pkg/metrics"
	"github.com/shashiranjanraj/souqhup/pkg/middleware"
	"github.com/shashiranjanraj/souqhup/pkg/reqid"
	"github.com/shashiranjanraj/souqhup/pkg/response"
	"github.com/shashiranjanraj/souqhup/pkg/router"
	"github.com/shashiranjanraj/souqhup/pkg/session"
)

// Check reports the health of one dependency. A nil error means healthy.
type Check func(ctx context.Context) error

// Options configures the kernel.
type Options struct {
	Signer  *auth.Signer
	Session session.Options
	Limiter *middleware.Limiter
	// StorageRoot, when set, is served read-only under /storage/.
	StorageRoot string
	Checks      map[string]Check
}

// HTTPKernel owns the router and its middleware.
type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel installs, outermost first: metrics, request id, recovery,
// access log, device session, CORS and the per-device rate limit.
func NewHTTPKernel(opts Options) *HTTPKernel {
	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(session.Middleware(opts.Signer, opts.Session))
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	if opts.Limiter != nil {
		r.Use(opts.Limiter.Middleware)
	}

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/health", "health", healthHandler(opts.Checks))
	if opts.StorageRoot != "" {
		r.Handle("/storage/*", http.StripPrefix("/storage/", http.FileServer(http.Dir(opts.StorageRoot))))
	}
	return &HTTPKernel{router: r}
}

// Routes runs each registration against the kernel router.
func (k *HTTPKernel) Routes(fns ...func(*router.Router)) *HTTPKernel {
	for _, fn := range fns {
		fn(k.router)
	}
	return k
}

func (k *HTTPKernel) Router() *router.Router { return k.router }

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// healthHandler answers 200 when every check passes, 503 otherwise.
func healthHandler(checks map[string]Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		results := make(map[string]string, len(checks))
		healthy := true
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				healthy = false
				continue
			}
			results[name] = "ok"
		}

		if !healthy {
			response.ErrorWith(w, http.StatusServiceUnavailable, "Service degraded", results)
			return
		}
		response.Success(w, map[string]any{"status": "ok", "checks": results})
	}
}
