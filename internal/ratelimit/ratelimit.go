// Package ratelimit implements a fixed-window request counter shared across
// endpoint classes. It is a best-effort throttle: counting is at-least-once
// and slight over-admission under contention is acceptable.
package ratelimit

import (
	"sync"
	"time"
)

// Result reports the outcome of one Check call.
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

type counter struct {
	bucket  int64
	count   int
	resetAt time.Time
}

// Limiter keeps fixed-window counters keyed by identifier. One Limiter is
// shared by every route class; each call site passes its own budget, so
// identifiers must already encode the class (e.g. "login:1.2.3.4").
type Limiter struct {
	mu       sync.Mutex
	counters map[string]*counter
	now      func() time.Time

	lastSweep time.Time
}

func New() *Limiter {
	return &Limiter{
		counters:  make(map[string]*counter),
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

// Check counts one request for identifier against limit per window. A counter
// from an earlier window is reset in place; stale identifiers are evicted
// lazily during the periodic sweep.
func (l *Limiter) Check(identifier string, limit int, window time.Duration) Result {
	if limit <= 0 || window <= 0 {
		return Result{Allowed: true, Remaining: 0, ResetAt: l.now()}
	}

	now := l.now()
	bucket := now.UnixNano() / int64(window)
	resetAt := time.Unix(0, (bucket+1)*int64(window))

	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeSweep(now)

	c, ok := l.counters[identifier]
	if !ok || c.bucket != bucket {
		c = &counter{bucket: bucket, resetAt: resetAt}
		l.counters[identifier] = c
	}

	if c.count >= limit {
		return Result{
			Allowed:    false,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: resetAt.Sub(now),
		}
	}

	c.count++
	return Result{
		Allowed:   true,
		Remaining: limit - c.count,
		ResetAt:   resetAt,
	}
}

// maybeSweep drops counters whose window has passed. Called with the lock
// held.
func (l *Limiter) maybeSweep(now time.Time) {
	if now.Sub(l.lastSweep) < time.Minute {
		return
	}
	l.lastSweep = now
	for id, c := range l.counters {
		if now.After(c.resetAt) {
			delete(l.counters, id)
		}
	}
}
