package middleware

import (
	"net/http"

	"github.com/openshelf/library-api/internal/api/httpx"
)

// RequireRole wraps a handler and allows only the given roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := IdentityFrom(r.Context())
			if !ok {
				httpx.WriteText(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			if _, ok := allowed[ident.Role]; !ok {
				httpx.WriteText(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
