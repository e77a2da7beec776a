package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/funnel-builder-backend/internal/platform/ctxutil"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

// Probes and metrics scrapes log at debug unless they fail.
var quietPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// RequestLogger writes one line per request after the handler chain runs.
// Request and user ids come from the request context.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		ctx := c.Request.Context()
		kv := []any{
			"method", c.Request.Method,
			"path", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if td := ctxutil.GetTraceData(ctx); td != nil && td.TraceID != "" {
			kv = append(kv, "trace_id", td.TraceID)
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}

		l := log.WithContext(ctx)
		switch {
		case status >= 500:
			l.Error("HTTP request", kv...)
		case status >= 400:
			l.Warn("HTTP request", kv...)
		case quietPaths[route]:
			l.Debug("HTTP request", kv...)
		default:
			l.Info("HTTP request", kv...)
		}
	}
}
