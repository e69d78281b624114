package security

import (
	"crypto/subtle"
	"net/http"
)

// TokenHeader carries the shared API token.
const TokenHeader = "X-Token"

// TokenAuth rejects requests whose X-Token differs from token. An empty token disables the check.
// onDenied, when set, writes the 401 response.
func TokenAuth(token string, onDenied func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(TokenHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				if onDenied != nil {
					onDenied(w, r)
				} else {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
