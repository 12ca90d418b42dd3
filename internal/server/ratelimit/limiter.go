// Package ratelimit keeps one fixed request window per client key.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/rajat290/notekeeper/internal/common"
	"golang.org/x/time/rate"
)

type entry struct {
	limiter     *rate.Limiter
	windowStart time.Time
}

// RateLimiter allows each key at most `requests` requests per fixed `window`.
// The window opens with the key's first request; once it has elapsed the key
// gets a fresh, full bucket. Inside a window the bucket refills by less than
// one token, so the cap is exact.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	window   time.Duration
	now      func() time.Time
}

// NewRateLimiter creates a limiter granting requests per window to each key.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests < 1 {
		requests = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Every(window),
		burst:    requests,
		window:   window,
		now:      time.Now,
	}
}

// GetLimiter returns the bucket of key's current window, opening a new
// window on first use or after the previous one has elapsed.
func (rl *RateLimiter) GetLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return rl.current(key, rl.now())
}

func (rl *RateLimiter) current(key string, now time.Time) *rate.Limiter {
	e, ok := rl.limiters[key]
	if !ok || !now.Before(e.windowStart.Add(rl.window)) {
		e = &entry{limiter: rate.NewLimiter(rl.limit, rl.burst), windowStart: now}
		rl.limiters[key] = e
	}
	return e.limiter
}

// Allow reports whether key may make a request now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	return rl.current(key, now).AllowN(now, 1)
}

// CheckLimit returns common.ErrRateLimitExceeded when key is over budget.
func (rl *RateLimiter) CheckLimit(key string) error {
	if !rl.Allow(key) {
		return common.ErrRateLimitExceeded
	}
	return nil
}

// Cleanup drops keys whose window has elapsed; their next request opens a
// new window anyway.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, e := range rl.limiters {
		if !now.Before(e.windowStart.Add(rl.window)) {
			delete(rl.limiters, key)
		}
	}
}

// Len is the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// StartCleanupWorker runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanupWorker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Cleanup()
		}
	}
}
