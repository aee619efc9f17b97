// Package ratelimit is a fixed-window request counter keyed by voter
// fingerprint. It is process-local and resets on restart: the point is abuse
// dampening, not strict quota enforcement, so parallel instances each keeping
// their own window is acceptable.
package ratelimit

import (
	"sync"
	"time"
)

type entry struct {
	count     int
	resetTime time.Time
}

type Limiter struct {
	mu          sync.Mutex
	entries     map[string]*entry
	window      time.Duration
	maxRequests int
	now         func() time.Time
}

func NewLimiter(window time.Duration, maxRequests int) *Limiter {
	return &Limiter{
		entries:     make(map[string]*entry),
		window:      window,
		maxRequests: maxRequests,
		now:         time.Now,
	}
}

// Allow counts a request against key's current window and reports whether it
// fits. Expired windows reset lazily on the next request.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.After(e.resetTime) {
		l.entries[key] = &entry{count: 1, resetTime: now.Add(l.window)}
		return true
	}

	e.count++
	return e.count <= l.maxRequests
}
