package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maturamate/maturamate-backend/internal/http/response"
	"github.com/maturamate/maturamate-backend/internal/observability"
	"github.com/maturamate/maturamate-backend/internal/platform/ratelimit"
)

var errTooManyRequests = errors.New("too many requests")

// RateLimit throttles per client IP. A nil pool disables it.
func RateLimit(pool *ratelimit.Pool, m *observability.Metrics) gin.HandlerFunc {
	if pool == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if !pool.Allow(c.ClientIP()) {
			m.IncRateLimited(observability.RouteLabel(c.FullPath()))
			c.Header("Retry-After", "1")
			response.RespondError(c, http.StatusTooManyRequests, "rate_limited", errTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
