// Package requiredheader provides HTTP middleware that rejects requests
// missing required headers before they reach the handler.
package requiredheader

import (
	"fmt"
	"net/http"
)

// Middleware returns middleware that responds with 400 Bad Request when
// any of the named headers is absent or empty on an incoming request. The
// response body names the first missing header.
func Middleware(headers ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, h := range headers {
				if r.Header.Get(h) == "" {
					http.Error(w, fmt.Sprintf("missing required header: %s", h), http.StatusBadRequest)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
