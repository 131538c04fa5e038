// Package ratelimit throttles wizard traffic per client address with an
// in-process sliding window.
package ratelimit

import (
	"sync"
	"time"
)

// Result is the outcome of one Allow call.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is set when the request was refused.
	RetryAfter time.Duration
}

// Limiter admits at most limit requests per key within any window.
// Timestamps older than the window are dropped on access, so a burst at
// the end of one window cannot double up with the start of the next.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string][]time.Time
	now     func() time.Time
}

func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string][]time.Time),
		now:     time.Now,
	}
}

func (l *Limiter) Allow(key string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	stamps := prune(l.buckets[key], now.Add(-l.window))
	if len(stamps) >= l.limit {
		l.buckets[key] = stamps
		resetAt := stamps[0].Add(l.window)
		return Result{
			Limit:      l.limit,
			ResetAt:    resetAt,
			RetryAfter: resetAt.Sub(now),
		}
	}

	stamps = append(stamps, now)
	l.buckets[key] = stamps
	return Result{
		Allowed:   true,
		Limit:     l.limit,
		Remaining: l.limit - len(stamps),
		ResetAt:   stamps[0].Add(l.window),
	}
}

// Sweep forgets keys with no request inside the window.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.window)
	for key, stamps := range l.buckets {
		if len(prune(stamps, cutoff)) == 0 {
			delete(l.buckets, key)
		}
	}
}

func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	return stamps[i:]
}
