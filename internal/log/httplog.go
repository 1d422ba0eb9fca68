package log

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned by HTTPMiddleware, or ""
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// statusRecorder captures the status code and body size written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// HTTPMiddleware assigns each request an id and logs it once the handler
// returns. An incoming X-Request-ID is kept.
func HTTPMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()

			id := req.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, req.WithContext(context.WithValue(req.Context(), requestIDKey{}, id)))

			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			fields := []interface{}{
				"request_id", id,
				"method", req.Method,
				"path", req.URL.Path,
				"status", rec.status,
				"size", rec.size,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", req.RemoteAddr,
				"user_agent", req.UserAgent(),
			}
			if rec.status >= http.StatusInternalServerError {
				logger.Errorw("http request", fields...)
			} else {
				logger.Infow("http request", fields...)
			}
		})
	}
}
