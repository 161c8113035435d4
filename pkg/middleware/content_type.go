package middleware

import (
	"net/http"
	"strings"

	"kairooms/pkg/logger"
)

// ContentTypeValidation enforces the body media type on mutating requests.
// JSON everywhere, multipart for the avatar upload; requests without a body
// (logout, approvals) pass through.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasBody(r) && mutating(r.Method) {
				contentType := mediaType(r.Header.Get("Content-Type"))
				if contentType != "application/json" && contentType != "multipart/form-data" {
					log.Warn("Unsupported Content-Type",
						"request_id", RequestID(r.Context()),
						"content_type", contentType,
						"method", r.Method,
						"path", r.URL.Path,
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnsupportedMediaType)
					_, _ = w.Write([]byte(`{"error":"Content-Type must be application/json or multipart/form-data"}`))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func mutating(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

func hasBody(r *http.Request) bool {
	return r.ContentLength > 0
}

func mediaType(header string) string {
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.Split(header, ";")[0])
}
