package middleware

import (
	"net/http"

	"github.com/technova-labs/inductbot/internal/api"
)

// MaxBodyBytes caps request body size. Requests declaring a larger
// Content-Length are rejected up front; chunked bodies are capped by a
// MaxBytesReader so handlers see an error mid-read instead.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength != -1 && r.ContentLength > limit {
				api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
