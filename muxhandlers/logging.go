package muxhandlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vitalvas/routix/mux"
)

// LoggingConfig configures the access log middleware.
type LoggingConfig struct {
	// Logger receives one entry per request. Defaults to zap.L().
	Logger *zap.Logger

	// SkipPaths lists exact request paths that are never logged, such
	// as health check or metrics endpoints.
	SkipPaths []string
}

// LoggingMiddleware returns a middleware that writes one structured log
// entry per request once the handler has finished. Entries carry the
// method, path, matched route template, status, response size, duration
// and client address, plus the request ID when RequestIDMiddleware ran
// earlier in the chain. Responses with a 5xx status log at error level,
// 4xx at warn, everything else at info.
func LoggingMiddleware(cfg LoggingConfig) mux.MiddlewareFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.L()
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)

			next.ServeHTTP(sw, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Int64("bytes", sw.bytes),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
			}

			if tpl := requestRouteTemplate(r); tpl != "" {
				fields = append(fields, zap.String("route", tpl))
			}

			if id := RequestIDFromContext(r.Context()); id != "" {
				fields = append(fields, zap.String("request_id", id))
			}

			switch {
			case sw.status >= http.StatusInternalServerError:
				logger.Error("http request", fields...)
			case sw.status >= http.StatusBadRequest:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
		})
	}
}

// requestRouteTemplate returns the path template of the route that
// matched the request, or an empty string when there is none.
func requestRouteTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return ""
	}

	tpl, err := route.GetPathTemplate()
	if err != nil {
		return ""
	}

	return tpl
}
