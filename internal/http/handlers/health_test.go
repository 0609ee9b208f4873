package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func serveHealth(h *HealthHandler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthcheck", h.HealthCheck)
	r.GET("/readyz", h.Ready)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadyReportsFailingChecks(t *testing.T) {
	h := NewHealthHandler(map[string]ReadinessCheck{
		"db":    func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("connection refused") },
		"none":  nil,
	})

	rec := serveHealth(h, "/readyz")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var body struct {
		Status  string   `json:"status"`
		Failing []string `json:"failing"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Failing) != 1 || body.Failing[0] != "redis" {
		t.Fatalf("unexpected failing set: %v", body.Failing)
	}
}

func TestLivenessIgnoresChecks(t *testing.T) {
	h := NewHealthHandler(map[string]ReadinessCheck{
		"db": func(context.Context) error { return errors.New("down") },
	})
	rec := serveHealth(h, "/healthcheck")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected liveness response: %d %q", rec.Code, rec.Body.String())
	}

	rec = serveHealth(NewHealthHandler(nil), "/readyz")
	if rec.Code != http.StatusOK {
		t.Fatalf("no checks should be ready: %d", rec.Code)
	}
}
