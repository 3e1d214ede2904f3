package middleware

import (
	"net/http"
	"strings"

	"github.com/openshelf/library-api/internal/api/httpx"
	"github.com/openshelf/library-api/internal/auth"
)

type AuthMiddleware struct {
	tm *auth.TokenManager
}

func NewAuthMiddleware(tm *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tm: tm}
}

// Auth validates the bearer token and puts the caller's identity on the
// request context. Everything below the router trusts that identity.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.WriteText(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		ident, err := m.tm.Parse(token)
		if err != nil {
			httpx.WriteText(w, http.StatusUnauthorized, "invalid access token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
	})
}
