package middleware

import "net/http"

// MaxRequestSize caps the request body. Oversized bodies fail inside the
// handler's read with http.MaxBytesError, which the JSON decoder surfaces
// as a bad-request.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
