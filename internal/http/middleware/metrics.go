package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maturamate/maturamate-backend/internal/observability"
)

// Metrics instruments HTTP request counts/latency when metrics are enabled.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.APIInflightInc()
		defer m.APIInflightDec()

		c.Next()

		m.ObserveAPI(c.Request.Method, observability.RouteLabel(c.FullPath()), c.Writer.Status(), time.Since(start))
	}
}
