package http

import (
	"sync"
	"time"
)

// rateLimiter is a sliding-window limiter for one connection's messages.
type rateLimiter struct {
	mu       sync.Mutex
	limit    int
	interval time.Duration
	history  []time.Time
	now      func() time.Time
}

func newRateLimiter(limit int, interval time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	windowStart := now.Add(-r.interval)

	fresh := r.history[:0]
	for _, t := range r.history {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}
	r.history = fresh

	if len(r.history) >= r.limit {
		return false
	}
	r.history = append(r.history, now)
	return true
}
