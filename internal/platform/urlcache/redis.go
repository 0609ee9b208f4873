package urlcache

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

const backendRedis = "redis"

// Redis shares signed URLs across instances. Expiry is delegated to the
// key TTL; errors degrade to a miss.
type Redis struct {
	rdb    goredis.Cmdable
	prefix string
	log    *logger.Logger
	rec    Recorder
}

func NewRedis(rdb goredis.Cmdable, prefix string, log *logger.Logger, rec Recorder) *Redis {
	if prefix == "" {
		prefix = "signed_url:"
	}
	return &Redis{
		rdb:    rdb,
		prefix: prefix,
		log:    log.With("cache", "RedisURLCache"),
		rec:    rec,
	}
}

func (r *Redis) Get(ctx context.Context, key string) (Hit, bool) {
	k := r.prefix + key
	var (
		getCmd *goredis.StringCmd
		ttlCmd *goredis.DurationCmd
	)
	_, err := r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		getCmd = p.Get(ctx, k)
		ttlCmd = p.PTTL(ctx, k)
		return nil
	})
	if err != nil && !errors.Is(err, goredis.Nil) {
		r.log.Warn("signed url cache read failed", "key", key, "error", err)
		r.miss()
		return Hit{}, false
	}
	url, err := getCmd.Result()
	if err != nil {
		r.miss()
		return Hit{}, false
	}
	left, err := ttlCmd.Result()
	if err != nil || left <= 0 {
		// -1 means the key lost its TTL; never serve it
		if err == nil && left == -1 {
			_ = r.rdb.Del(ctx, k).Err()
			r.evicted("no_ttl")
		}
		r.miss()
		return Hit{}, false
	}
	if r.rec != nil {
		r.rec.URLCacheHit(backendRedis)
	}
	return Hit{URL: url, ExpiresInSeconds: secondsLeft(left)}, true
}

func (r *Redis) Set(ctx context.Context, key, url string, ttlSeconds int) {
	k := r.prefix + key
	ttl := storedTTL(ttlSeconds)
	if ttl <= 0 {
		if err := r.rdb.Del(ctx, k).Err(); err != nil {
			r.log.Warn("signed url cache delete failed", "key", key, "error", err)
		}
		return
	}
	if err := r.rdb.Set(ctx, k, url, ttl.Truncate(time.Millisecond)).Err(); err != nil {
		r.log.Warn("signed url cache write failed", "key", key, "error", err)
	}
}

func (r *Redis) Clear(ctx context.Context, key string) {
	if err := r.rdb.Del(ctx, r.prefix+key).Err(); err != nil {
		r.log.Warn("signed url cache clear failed", "key", key, "error", err)
	}
}

func (r *Redis) miss() {
	if r.rec != nil {
		r.rec.URLCacheMiss(backendRedis)
	}
}

func (r *Redis) evicted(reason string) {
	if r.rec != nil {
		r.rec.URLCacheEviction(backendRedis, reason)
	}
}
