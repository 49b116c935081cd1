package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"buddhaday-notify/internal/logger"
	"buddhaday-notify/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// traceMiddleware attaches a trace ID to the request context, reusing the
// caller's X-Request-ID when present.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(requestIDHeader)
		if traceID == "" {
			traceID = logger.NewTraceID()
		}
		w.Header().Set(requestIDHeader, traceID)
		next.ServeHTTP(w, r.WithContext(logger.WithTraceID(r.Context(), traceID)))
	})
}

// monitorMiddleware records request metrics and an access log line.
func monitorMiddleware(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if cr := mux.CurrentRoute(r); cr != nil {
				if tpl, err := cr.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			elapsed := time.Since(start)

			if m != nil {
				m.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(ww.statusCode)).Inc()
				m.RequestDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())
			}

			slog.Info("[http] request",
				append(logger.LogWithTrace(r.Context()),
					slog.String("method", r.Method),
					slog.String("route", route),
					slog.Int("status", ww.statusCode),
					slog.Duration("elapsed", elapsed),
				)...)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
