package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// statusWriter records the response code so the request log can include it.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Logger returns middleware that logs each request's method, URI, status,
// address, and duration. Server errors log at error level so failed
// ingests stand out in the stream.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			level := slog.LevelInfo
			if sw.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			logger.Log(r.Context(), level,
				"request",
				"method", r.Method,
				"uri", r.URL.RequestURI(),
				"status", sw.status,
				"addr", r.RemoteAddr,
				"duration", time.Since(start),
			)
		})
	}
}
