package middleware

import (
	"io"
	"net/http"
)

const maxRequestBodyBytes = 1 << 20

// LimitAndDrainRequest caps the request body size, and drains and closes the body after the
// handler returns so the connection can be reused.
func LimitAndDrainRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
			}
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
