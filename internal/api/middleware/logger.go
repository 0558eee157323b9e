package middleware

import (
	"net/http"
	"time"

	"github.com/dom/diary-service/internal/logger"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger writes one structured log line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			fields := logger.Fields{
				"request_id": chiMiddleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"remote":     r.RemoteAddr,
			}
			switch {
			case ww.Status() >= http.StatusInternalServerError:
				logger.Error("request", fields)
			case ww.Status() >= http.StatusBadRequest:
				logger.Warn("request", fields)
			default:
				logger.Info("request", fields)
			}
		}()

		next.ServeHTTP(ww, r)
	})
}
