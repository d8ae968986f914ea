// Package rbac guards routes by the role of the signed-in device.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/souqhup/pkg/response"
)

// RoleSource reports the role of the request's device and whether it is
// signed in.
type RoleSource func(r *http.Request) (role string, signedIn bool, err error)

// Guard builds role middleware over a RoleSource.
type Guard struct {
	source RoleSource
}

func New(source RoleSource) *Guard { return &Guard{source: source} }

// Authenticated lets through any signed-in device.
func (g *Guard) Authenticated(next http.Handler) http.Handler {
	return g.HasRole()(next)
}

// HasRole lets through signed-in devices whose role is one of roles. With
// no roles any signed-in device passes.
func (g *Guard) HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, signedIn, err := g.source(r)
			switch {
			case err != nil:
				response.Error(w, http.StatusInternalServerError, "Session unavailable")
				return
			case !signedIn:
				response.Unauthorized(w)
				return
			case len(allowed) > 0 && !allowed[role]:
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guest blocks signed-in devices, for the login surface.
func (g *Guard) Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, signedIn, err := g.source(r)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "Session unavailable")
			return
		}
		if signedIn {
			response.Error(w, http.StatusConflict, "Already authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}
