package middleware

import (
	"net/http"
	"time"

	"github.com/arigopay/backend/internal/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogging logs HTTP requests with structured logging
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if raw := r.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		logger.Infow("HTTP request",
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", path,
			"status", statusOf(ww),
			"bytes", ww.BytesWritten(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP(r),
			"user_agent", r.UserAgent(),
		)
	})
}
