package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// ReadinessCheck reports whether one backing dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]ReadinessCheck
	timeout time.Duration
}

func NewHealthHandler(checks map[string]ReadinessCheck) *HealthHandler {
	out := make(map[string]ReadinessCheck, len(checks))
	for name, fn := range checks {
		if fn != nil {
			out[name] = fn
		}
	}
	return &HealthHandler{checks: out, timeout: 2 * time.Second}
}

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /readyz
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	failing := []string{}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			failing = append(failing, name)
		}
	}
	if len(failing) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "failing": failing})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
