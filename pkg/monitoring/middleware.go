package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/carelink/hms-core/pkg/logger"
)

// responseRecorder captures response status code
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

// Middleware records request metrics and emits a structured request log line.
func Middleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			recorder := &responseRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(recorder, r)

			duration := time.Since(start)

			RecordHTTPRequest(r.Method, r.URL.Path, strconv.Itoa(recorder.statusCode), duration.Seconds())
			log.HTTPRequest(r.Method, r.URL.Path, r.RemoteAddr, recorder.statusCode, duration.Milliseconds())
		})
	}
}

// SecurityHeaders adds security headers to every response
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}
