package ops

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned by Do while the breaker is open.
var ErrCircuitOpen = errors.New("audit store circuit open")

// CircuitBreaker stops hammering an unhealthy audit store. After threshold
// consecutive failures it opens for cooldown, then lets one call through.
type CircuitBreaker struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	failures  int
	openUntil time.Time
	now       func() time.Time
	onChange  func(open bool)
}

// NewCircuitBreaker creates a closed breaker. Non-positive arguments select
// 5 failures and one minute.
func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	return &CircuitBreaker{
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Do runs fn unless the breaker is open and records its outcome.
func (cb *CircuitBreaker) Do(fn func() error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}
	err := fn()
	cb.record(err == nil)
	return err
}

// IsOpen reports whether calls are currently rejected.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.now().Before(cb.openUntil)
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return !cb.now().Before(cb.openUntil)
}

func (cb *CircuitBreaker) record(ok bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	wasOpen := cb.failures >= cb.threshold
	if ok {
		cb.failures = 0
		cb.openUntil = time.Time{}
	} else {
		cb.failures++
		if cb.failures >= cb.threshold {
			cb.openUntil = cb.now().Add(cb.cooldown)
		}
	}
	if open := cb.failures >= cb.threshold; open != wasOpen && cb.onChange != nil {
		cb.onChange(open)
	}
}
