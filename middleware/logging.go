package middleware

import (
	"net/http"
	"time"

	"github.com/rabbikazmi/HackingDelhi/logger"
)

// LoggingMiddleware logs one line per request. Server errors log at error
// level, client errors at warn.
func LoggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrw := &responseWriter{
				ResponseWriter: w,
				status:         http.StatusOK,
			}

			next.ServeHTTP(wrw, r)

			kv := []interface{}{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrw.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			}
			if wrw.userID != "" {
				kv = append(kv, "user_id", wrw.userID)
			}
			switch {
			case wrw.status >= 500:
				log.Error("request", kv...)
			case wrw.status >= 400:
				log.Warn("request", kv...)
			default:
				log.Info("request", kv...)
			}
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	userID      string
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// tagUser records the authenticated user for the request log line.
func tagUser(w http.ResponseWriter, userID string) {
	if rw, ok := w.(*responseWriter); ok {
		rw.userID = userID
	}
}
