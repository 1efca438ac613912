package agent

import (
	"sync"
	"time"
)

// RateLimiter gates acquisitions per key. Denial is a legitimate result, not
// an error.
type RateLimiter interface {
	TryAcquire(key string, interval time.Duration) bool
}

// MemoryRateLimiter keeps the last successful acquisition time per key in a
// mutex-guarded map. Keys are never evicted: growth is bounded by the number
// of distinct senders seen over the process lifetime.
// TODO: add TTL-based eviction for long-lived deployments; the TryAcquire
// contract must not change.
type MemoryRateLimiter struct {
	mu   sync.Mutex
	last map[string]time.Time
	now  func() time.Time
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		last: make(map[string]time.Time),
		now:  time.Now,
	}
}

// TryAcquire succeeds and records the timestamp iff no prior acquisition
// exists for key or at least interval has elapsed since the last success.
// The check and the update happen under one lock, so among simultaneous
// same-key attempts inside the window exactly one wins.
func (l *MemoryRateLimiter) TryAcquire(key string, interval time.Duration) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if last, ok := l.last[key]; ok && now.Sub(last) < interval {
		return false
	}
	l.last[key] = now
	return true
}
