package middleware

import (
	"net/http"
	"os"
	"strings"
)

// CORSMiddleware adds cross-origin headers for the browser frontend.
type CORSMiddleware struct {
	allowedOrigins []string
}

// NewCORSMiddleware creates CORS middleware with origins from the
// CORS_ORIGINS environment variable (comma separated, default "*").
func NewCORSMiddleware() *CORSMiddleware {
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "*"
	}

	var allowed []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}

	return &CORSMiddleware{allowedOrigins: allowed}
}

// Handler applies CORS headers and answers preflight requests.
func (m *CORSMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed := m.resolveOrigin(origin); allowed != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *CORSMiddleware) resolveOrigin(origin string) string {
	for _, allowed := range m.allowedOrigins {
		if allowed == "*" {
			if origin != "" {
				return origin
			}
			return "*"
		}
		if allowed == origin {
			return origin
		}
	}
	return ""
}
