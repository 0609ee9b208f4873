package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/maturamate/maturamate-backend/internal/data/db"
	"github.com/maturamate/maturamate-backend/internal/observability"
	"github.com/maturamate/maturamate-backend/internal/platform/gcp"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
	"github.com/maturamate/maturamate-backend/internal/platform/payments"
	"github.com/maturamate/maturamate-backend/internal/platform/ratelimit"
	"github.com/maturamate/maturamate-backend/internal/platform/urlcache"
)

type Clients struct {
	DB          *db.Service
	Redis       goredis.UniversalClient
	URLCache    urlcache.Cache
	Bucket      gcp.BucketService
	Payments    payments.Provider
	Metrics     *observability.Metrics
	Unsubscribe *ratelimit.Pool
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	if cfg.MetricsEnabled {
		c.Metrics = observability.New()
	}

	dbService, err := db.NewService(log, db.Config{
		Driver:     cfg.DB.Driver,
		Host:       cfg.DB.Host,
		Port:       cfg.DB.Port,
		User:       cfg.DB.User,
		Password:   cfg.DB.Password,
		Name:       cfg.DB.Name,
		SSLMode:    cfg.DB.SSLMode,
		SQLitePath: cfg.DB.SQLitePath,
		MaxOpen:    cfg.DB.MaxOpen,
		MaxIdle:    cfg.DB.MaxIdle,
	})
	if err != nil {
		return c, fmt.Errorf("init db: %w", err)
	}
	c.DB = dbService
	if err := db.AutoMigrateAll(dbService.DB()); err != nil {
		c.Close()
		return c, err
	}
	c.Metrics.StartDBCollector(ctx, log, dbService.DB(), 15*time.Second)

	switch cfg.URLCache.Backend {
	case "redis":
		if cfg.URLCache.RedisAddr == "" {
			c.Close()
			return c, fmt.Errorf("URL_CACHE_BACKEND=redis requires REDIS_ADDR")
		}
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.URLCache.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			c.Close()
			return c, fmt.Errorf("ping redis %s: %w", cfg.URLCache.RedisAddr, err)
		}
		c.Redis = rdb
		c.URLCache = urlcache.NewRedis(rdb, "maturamate:signed_url:", log, c.Metrics)
		c.Metrics.StartRedisCollector(ctx, log, rdb, 15*time.Second)
	case "", "memory":
		c.URLCache = urlcache.NewMemory(
			urlcache.WithMaxEntries(cfg.URLCache.MaxEntries),
			urlcache.WithRecorder(c.Metrics),
		)
	default:
		c.Close()
		return c, fmt.Errorf("unsupported URL_CACHE_BACKEND %q", cfg.URLCache.Backend)
	}

	bucket, err := resolveBucketService(log, cfg)
	if err != nil {
		c.Close()
		return c, err
	}
	c.Bucket = bucket

	if cfg.Stripe.SecretKey != "" {
		provider, err := payments.NewStripeProvider(log, payments.StripeConfig{
			SecretKey:     cfg.Stripe.SecretKey,
			WebhookSecret: cfg.Stripe.WebhookSecret,
		})
		if err != nil {
			c.Close()
			return c, fmt.Errorf("init stripe: %w", err)
		}
		c.Payments = provider
	} else {
		log.Warn("STRIPE_SECRET_KEY not set; billing endpoints answer 503")
	}

	c.Unsubscribe = ratelimit.NewPool(ratelimit.Config{
		RPS:   cfg.RateLimitRPS,
		Burst: cfg.RateLimitBurst,
	})
	return c, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Bucket != nil {
		_ = c.Bucket.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}
