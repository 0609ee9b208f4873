package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/maturamate/maturamate-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	maxRequestIDLen = 128
)

// AttachTraceContext runs after otelgin so the active span's trace id wins over
// a client supplied X-Trace-Id.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		corr := ctxutil.Correlation{
			RequestID: inboundID(c.GetHeader(headerRequestID)),
			TraceID:   inboundID(c.GetHeader(headerTraceID)),
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			corr.TraceID = sc.TraceID().String()
		}
		if corr.RequestID == "" {
			corr.RequestID = uuid.NewString()
		}
		if corr.TraceID == "" {
			corr.TraceID = corr.RequestID
		}

		c.Request = c.Request.WithContext(ctxutil.WithCorrelation(c.Request.Context(), corr))
		c.Header(headerTraceID, corr.TraceID)
		c.Header(headerRequestID, corr.RequestID)
		c.Next()
	}
}

// inboundID drops oversized or multi-line ids instead of echoing them back.
func inboundID(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) > maxRequestIDLen || strings.ContainsAny(raw, "\r\n") {
		return ""
	}
	return raw
}
