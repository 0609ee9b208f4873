package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Config struct {
	RPS   float64
	Burst int
	// IdleTTL drops limiters for keys not seen for this long.
	IdleTTL time.Duration
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Pool hands out one token bucket per key (usually a client IP).
type Pool struct {
	mu        sync.Mutex
	m         map[string]*entry
	cfg       Config
	now       func() time.Time
	lastPrune time.Time
}

func NewPool(cfg Config) *Pool {
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	return &Pool{m: make(map[string]*entry), cfg: cfg, now: time.Now}
}

func (p *Pool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if now.Sub(p.lastPrune) > p.cfg.IdleTTL {
		for k, e := range p.m {
			if now.Sub(e.lastSeen) > p.cfg.IdleTTL {
				delete(p.m, k)
			}
		}
		p.lastPrune = now
	}

	if e, ok := p.m[key]; ok {
		e.lastSeen = now
		return e.limiter
	}
	l := rate.NewLimiter(rate.Limit(p.cfg.RPS), p.cfg.Burst)
	p.m[key] = &entry{limiter: l, lastSeen: now}
	return l
}

func (p *Pool) Allow(key string) bool {
	return p.get(key).AllowN(p.now(), 1)
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}
