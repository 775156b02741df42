package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const internalErrorBody = `{"success":false,"error":{"type":"internal_error","code":"INTERNAL_ERROR","message":"internal server error"}}`

type loggingWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *loggingWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *loggingWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// RequestLogging logs one line per request and turns handler panics into a 500 envelope
func RequestLogging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lw := &loggingWriter{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("Panic recovered in HTTP handler",
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Any("panic", rec),
						zap.Stack("stack"),
					)
					if !lw.wroteHeader {
						lw.Header().Del("Content-Encoding")
						lw.Header().Set("Content-Type", "application/json")
						lw.WriteHeader(http.StatusInternalServerError)
						_, _ = lw.Write([]byte(internalErrorBody))
					}
				}

				fields := []zap.Field{
					zap.String("method", r.Method),
					zap.String("route", r.Pattern),
					zap.String("path", r.URL.Path),
					zap.Int("status", lw.status),
					zap.Duration("duration", time.Since(start)),
				}
				if lw.status >= http.StatusInternalServerError {
					logger.Warn("HTTP request failed", fields...)
					return
				}
				logger.Debug("HTTP request", fields...)
			}()

			next.ServeHTTP(lw, r)
		})
	}
}
