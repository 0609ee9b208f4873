package urlcache

import (
	"context"
	"sync"
	"time"
)

const backendMemory = "memory"

type entry struct {
	url       string
	expiresAt time.Time
}

// Memory is a process-local Cache. Expired entries are dropped lazily on
// lookup; when MaxEntries is set a full map is swept, then trimmed by
// nearest expiry.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]entry
	now        func() time.Time
	maxEntries int
	rec        Recorder
}

type MemoryOption func(*Memory)

func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

func WithMaxEntries(n int) MemoryOption {
	return func(m *Memory) { m.maxEntries = n }
}

func WithRecorder(r Recorder) MemoryOption {
	return func(m *Memory) { m.rec = r }
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) (Hit, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		m.miss()
		return Hit{}, false
	}
	left := e.expiresAt.Sub(m.now())
	if left <= 0 {
		delete(m.entries, key)
		m.evicted("expired")
		m.miss()
		return Hit{}, false
	}
	if m.rec != nil {
		m.rec.URLCacheHit(backendMemory)
	}
	return Hit{URL: e.url, ExpiresInSeconds: secondsLeft(left)}, true
}

func (m *Memory) Set(_ context.Context, key, url string, ttlSeconds int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ttl := storedTTL(ttlSeconds)
	if ttl <= 0 {
		// never servable; make sure an older value is not served either
		delete(m.entries, key)
		return
	}
	now := m.now()
	if _, exists := m.entries[key]; !exists && m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		m.makeRoom(now)
	}
	m.entries[key] = entry{url: url, expiresAt: now.Add(ttl)}
}

func (m *Memory) Clear(_ context.Context, key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// Len reports the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) makeRoom(now time.Time) {
	for k, e := range m.entries {
		if !e.expiresAt.After(now) {
			delete(m.entries, k)
			m.evicted("expired")
		}
	}
	if len(m.entries) < m.maxEntries {
		return
	}
	var (
		victim  string
		soonest time.Time
		found   bool
	)
	for k, e := range m.entries {
		if !found || e.expiresAt.Before(soonest) {
			victim, soonest, found = k, e.expiresAt, true
		}
	}
	if found {
		delete(m.entries, victim)
		m.evicted("capacity")
	}
}

func (m *Memory) miss() {
	if m.rec != nil {
		m.rec.URLCacheMiss(backendMemory)
	}
}

func (m *Memory) evicted(reason string) {
	if m.rec != nil {
		m.rec.URLCacheEviction(backendMemory, reason)
	}
}
