package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// adminAuth requires "Authorization: Bearer <token>". An empty configured
// token disables the admin routes.
func adminAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeError(w, http.StatusForbidden, "admin api is disabled")
				return
			}

			header := strings.TrimSpace(r.Header.Get("Authorization"))
			got, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || got == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
