package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/maturamate/maturamate-backend/internal/observability"
	"github.com/maturamate/maturamate-backend/internal/platform/ratelimit"
)

func TestRateLimitPerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.New()
	pool := ratelimit.NewPool(ratelimit.Config{RPS: 0.001, Burst: 1})

	r := gin.New()
	r.GET("/unsubscribe", RateLimit(pool, m), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/unsubscribe", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	if rec := hit("10.0.0.1:1000"); rec.Code != http.StatusOK {
		t.Fatalf("first request: got=%d", rec.Code)
	}
	rec := hit("10.0.0.1:1001")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got=%d want=429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After header")
	}
	if rec := hit("10.0.0.2:1000"); rec.Code != http.StatusOK {
		t.Fatalf("other client: got=%d", rec.Code)
	}
	got, err := testutil.GatherAndCount(m.Registry(), "mm_rate_limited_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got != 1 {
		t.Fatalf("rate limited series: got=%d want=1", got)
	}
}

func TestRateLimitNilPoolPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RateLimit(nil, nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: got=%d", i, rec.Code)
		}
	}
}
