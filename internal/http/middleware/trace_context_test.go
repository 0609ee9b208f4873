package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/maturamate/maturamate-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name      string
		requestID string
		traceID   string
		keepReq   bool
		keepTrace bool
	}{
		{name: "generated"},
		{name: "inbound kept", requestID: "req-1", traceID: "trace-1", keepReq: true, keepTrace: true},
		{name: "oversized dropped", requestID: strings.Repeat("x", maxRequestIDLen+1)},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var seen ctxutil.Correlation
			r := gin.New()
			r.Use(AttachTraceContext())
			r.GET("/x", func(c *gin.Context) {
				seen = ctxutil.CorrelationOf(c.Request.Context())
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.requestID != "" {
				req.Header.Set(headerRequestID, tc.requestID)
			}
			if tc.traceID != "" {
				req.Header.Set(headerTraceID, tc.traceID)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if seen.RequestID == "" || seen.TraceID == "" {
				t.Fatalf("missing correlation ids: %+v", seen)
			}
			if got := rec.Header().Get(headerRequestID); got != seen.RequestID {
				t.Fatalf("response request id %q != context %q", got, seen.RequestID)
			}
			if tc.keepReq != (seen.RequestID == tc.requestID) {
				t.Fatalf("request id: got=%q inbound=%q", seen.RequestID, tc.requestID)
			}
			if tc.keepTrace != (seen.TraceID == tc.traceID) {
				t.Fatalf("trace id: got=%q inbound=%q", seen.TraceID, tc.traceID)
			}
		})
	}
}
