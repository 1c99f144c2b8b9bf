package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Auth gates the operator endpoints behind a shared API key, presented
// either as "Authorization: Bearer <key>" or in the X-API-Key header.
// An empty configured key leaves the subtree open, which is the local
// development mode; in that case the middleware is a no-op.
func Auth(apiKey string) func(http.Handler) http.Handler {
	secret := []byte(apiKey)
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := requestKey(r)
			if presented == "" || subtle.ConstantTimeCompare([]byte(presented), secret) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestKey pulls the presented key out of the request. The Bearer
// scheme wins when both carriers are set.
func requestKey(r *http.Request) string {
	if scheme, rest, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}
