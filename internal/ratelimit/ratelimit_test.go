package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fixedClock lets tests step through windows deterministically.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter() (*Limiter, *fixedClock) {
	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}
	l := New()
	l.now = clock.Now
	l.lastSweep = clock.Now()
	return l, clock
}

func TestLimiterBudget(t *testing.T) {
	l, _ := newTestLimiter()
	window := time.Minute

	for i := 0; i < 3; i++ {
		result := l.Check("login:10.0.0.1", 3, window)
		assert.True(t, result.Allowed, "call %d should pass", i+1)
		assert.Equal(t, 2-i, result.Remaining)
	}

	denied := l.Check("login:10.0.0.1", 3, window)
	assert.False(t, denied.Allowed)
	assert.Equal(t, 0, denied.Remaining)
	assert.Greater(t, denied.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, denied.RetryAfter, window)
}

func TestLimiterWindowReset(t *testing.T) {
	l, clock := newTestLimiter()
	window := time.Minute

	for i := 0; i < 3; i++ {
		l.Check("reset:10.0.0.1", 3, window)
	}
	assert.False(t, l.Check("reset:10.0.0.1", 3, window).Allowed)

	// The next window admits again
	clock.Advance(window + time.Second)
	result := l.Check("reset:10.0.0.1", 3, window)
	assert.True(t, result.Allowed)
	assert.Equal(t, 2, result.Remaining)
}

func TestLimiterIdentifiersAreIndependent(t *testing.T) {
	l, _ := newTestLimiter()

	for i := 0; i < 5; i++ {
		l.Check("general:10.0.0.1", 5, time.Minute)
	}
	assert.False(t, l.Check("general:10.0.0.1", 5, time.Minute).Allowed)

	// Different IP and different class both unaffected
	assert.True(t, l.Check("general:10.0.0.2", 5, time.Minute).Allowed)
	assert.True(t, l.Check("login:10.0.0.1", 5, time.Minute).Allowed)
}

func TestLimiterResetAt(t *testing.T) {
	l, clock := newTestLimiter()
	window := 15 * time.Minute

	result := l.Check("reset:10.0.0.9", 3, window)
	assert.True(t, result.Allowed)
	assert.True(t, result.ResetAt.After(clock.Now()))
	assert.LessOrEqual(t, result.ResetAt.Sub(clock.Now()), window)
}

func TestLimiterZeroBudgetDisables(t *testing.T) {
	l, _ := newTestLimiter()

	for i := 0; i < 100; i++ {
		assert.True(t, l.Check("none:10.0.0.1", 0, time.Minute).Allowed)
	}
}

func TestLimiterConcurrentAccess(t *testing.T) {
	l, _ := newTestLimiter()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Check("burst:10.0.0.1", 10, time.Minute)
		}()
	}
	wg.Wait()

	// Budget exhausted after 50 concurrent attempts against a limit of 10
	assert.False(t, l.Check("burst:10.0.0.1", 10, time.Minute).Allowed)
}

func TestLimiterSweepEvictsStale(t *testing.T) {
	l, clock := newTestLimiter()

	l.Check("a:1", 5, time.Second)
	l.Check("b:2", 5, time.Second)

	clock.Advance(2 * time.Minute)
	l.Check("c:3", 5, time.Second)

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.counters, "a:1")
	assert.NotContains(t, l.counters, "b:2")
	assert.Contains(t, l.counters, "c:3")
}
