package urlcache

import (
	"context"
	"time"
)

// SafetyBuffer is subtracted from every provider TTL at write time so a served
// URL always has at least this much validity left.
const SafetyBuffer = 3 * time.Second

// Hit is a cached signed URL and the whole seconds it remains servable.
type Hit struct {
	URL              string
	ExpiresInSeconds int
}

// Cache memoizes short-lived signed URLs by key. Implementations never return
// an entry at or past its stored expiry.
type Cache interface {
	Get(ctx context.Context, key string) (Hit, bool)
	Set(ctx context.Context, key, url string, ttlSeconds int)
	Clear(ctx context.Context, key string)
}

// Recorder receives cache outcome counts. Backends tolerate a nil Recorder.
type Recorder interface {
	URLCacheHit(backend string)
	URLCacheMiss(backend string)
	URLCacheEviction(backend, reason string)
}

// storedTTL applies the safety buffer; a non-positive result means the entry
// must never be served.
func storedTTL(ttlSeconds int) time.Duration {
	return time.Duration(ttlSeconds)*time.Second - SafetyBuffer
}

// secondsLeft rounds up so an entry written with ttl reports ttl-3 immediately.
func secondsLeft(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
