package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/maturamate/maturamate-backend/internal/platform/ctxutil"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

// Probes and scrapes would otherwise dominate the log.
var quietRoutes = map[string]bool{
	"/healthcheck": true,
	"/readyz":      true,
	"/metrics":     true,
}

// RequestLogger logs one line per request. The raw query is never logged:
// unsubscribe links and token fallbacks carry credentials there.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		status := c.Writer.Status()
		if quietRoutes[route] && status < 400 {
			return
		}
		if route == "" {
			route = "unmatched"
		}

		ctx := c.Request.Context()
		corr := ctxutil.CorrelationOf(ctx)
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"request_id", corr.RequestID,
			"trace_id", corr.TraceID,
		}
		if uid := ctxutil.UserID(ctx); uid != uuid.Nil {
			fields = append(fields, "user_id", uid.String())
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		if status >= 500 {
			log.Error("HTTP request", fields...)
		} else if status >= 400 {
			log.Warn("HTTP request", fields...)
		} else {
			log.Info("HTTP request", fields...)
		}
	}
}
