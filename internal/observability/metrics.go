package observability

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

// Metrics owns a private registry. All methods are safe on a nil receiver so
// callers can run with metrics disabled.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	urlCacheLookups   *prometheus.CounterVec
	urlCacheEvictions *prometheus.CounterVec

	relationMutations *prometheus.CounterVec
	stripeWebhooks    *prometheus.CounterVec
	rateLimited       *prometheus.CounterVec

	dbStats   *prometheus.GaugeVec
	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mm_api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mm_api_request_duration_seconds",
			Help:    "API request latency by method/route/status.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mm_api_inflight_requests",
			Help: "Requests currently being served.",
		}),
		urlCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mm_url_cache_lookups_total",
			Help: "Signed URL cache lookups by backend/result.",
		}, []string{"backend", "result"}),
		urlCacheEvictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mm_url_cache_evictions_total",
			Help: "Signed URL cache evictions by backend/reason.",
		}, []string{"backend", "reason"}),
		relationMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mm_content_relation_mutations_total",
			Help: "Flag/favorite/completion writes by kind/content type/operation.",
		}, []string{"kind", "content_type", "op"}),
		stripeWebhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mm_stripe_webhooks_total",
			Help: "Stripe webhook deliveries by event type/outcome.",
		}, []string{"type", "outcome"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mm_rate_limited_total",
			Help: "Requests rejected by the rate limiter, by route.",
		}, []string{"route"}),
		dbStats: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mm_db_pool",
			Help: "database/sql pool statistics.",
		}, []string{"stat"}),
		redisUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mm_redis_up",
			Help: "1 when the last redis ping succeeded.",
		}),
		redisPing: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mm_redis_ping_seconds",
			Help: "Latency of the last redis ping.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.urlCacheLookups,
		m.urlCacheEvictions,
		m.relationMutations,
		m.stripeWebhooks,
		m.rateLimited,
		m.dbStats,
		m.redisUp,
		m.redisPing,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	code := strconv.Itoa(status)
	m.apiRequests.WithLabelValues(method, route, code).Inc()
	m.apiLatency.WithLabelValues(method, route, code).Observe(dur.Seconds())
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) URLCacheHit(backend string) {
	if m == nil {
		return
	}
	m.urlCacheLookups.WithLabelValues(backend, "hit").Inc()
}

func (m *Metrics) URLCacheMiss(backend string) {
	if m == nil {
		return
	}
	m.urlCacheLookups.WithLabelValues(backend, "miss").Inc()
}

func (m *Metrics) URLCacheEviction(backend, reason string) {
	if m == nil {
		return
	}
	m.urlCacheEvictions.WithLabelValues(backend, reason).Inc()
}

func (m *Metrics) IncRelationMutation(kind, contentType, op string) {
	if m == nil {
		return
	}
	m.relationMutations.WithLabelValues(kind, contentType, op).Inc()
}

func (m *Metrics) IncStripeWebhook(eventType, outcome string) {
	if m == nil {
		return
	}
	if eventType == "" {
		eventType = "unknown"
	}
	m.stripeWebhooks.WithLabelValues(eventType, outcome).Inc()
}

func (m *Metrics) IncRateLimited(route string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(route).Inc()
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					log.Warn("metrics: db stats unavailable", "error", err)
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.dbStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.dbStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.dbStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.dbStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
				m.dbStats.WithLabelValues("max_open_connections").Set(float64(stats.MaxOpenConnections))
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb goredis.UniversalClient, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					log.Warn("metrics: redis ping failed", "error", err)
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

// RouteLabel keeps label cardinality bounded for unmatched paths.
func RouteLabel(fullPath string) string {
	fullPath = strings.TrimSpace(fullPath)
	if fullPath == "" {
		return "unmatched"
	}
	return fullPath
}
