package ratelimit

import (
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLimiter_FixedWindow(t *testing.T) {
	clock := &manualClock{now: time.Unix(1_700_000_000, 0)}
	limiter := NewLimiterWithClock(clock.Now)

	for i := 1; i <= 5; i++ {
		res := limiter.Check("1.2.3.4:login", 5, time.Minute)
		require.True(t, res.Allowed, "call %d", i)
		assert.Equal(t, i, res.Count)
		assert.Equal(t, 5-i, res.Remaining)
		assert.Equal(t, int64(1_700_000_060), res.ResetAt)
	}

	res := limiter.Check("1.2.3.4:login", 5, time.Minute)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, 6, res.Count)
	assert.Equal(t, 61*time.Second, res.RetryAfter)

	// the window is inclusive of its last second
	clock.Advance(60 * time.Second)
	assert.False(t, limiter.Check("1.2.3.4:login", 5, time.Minute).Allowed)

	clock.Advance(time.Second)
	res = limiter.Check("1.2.3.4:login", 5, time.Minute)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 4, res.Remaining)
	assert.Equal(t, int64(1_700_000_061+60), res.ResetAt)
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	clock := &manualClock{now: time.Unix(1_700_000_000, 0)}
	limiter := NewLimiterWithClock(clock.Now)

	assert.True(t, limiter.Check("a", 1, time.Minute).Allowed)
	assert.False(t, limiter.Check("a", 1, time.Minute).Allowed)
	assert.True(t, limiter.Check("b", 1, time.Minute).Allowed)
	assert.Equal(t, 2, limiter.Len())
}

func TestLimiter_BurstAcrossBoundary(t *testing.T) {
	clock := &manualClock{now: time.Unix(1_700_000_000, 0)}
	limiter := NewLimiterWithClock(clock.Now)

	allowed := 0
	for i := 0; i < 3; i++ {
		if limiter.Check("k", 3, 10*time.Second).Allowed {
			allowed++
		}
	}
	clock.Advance(11 * time.Second)
	for i := 0; i < 3; i++ {
		if limiter.Check("k", 3, 10*time.Second).Allowed {
			allowed++
		}
	}
	assert.Equal(t, 6, allowed)
}

func TestLimiter_ConcurrentSameKey(t *testing.T) {
	const n = 500
	limiter := NewLimiterWithClock(func() time.Time { return time.Unix(1_700_000_000, 0) })

	var (
		wg      sync.WaitGroup
		allowed atomic.Int64
		counts  = make([]int, n)
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			res := limiter.Check("shared", n/2, time.Minute)
			counts[i] = res.Count
			if res.Allowed {
				allowed.Add(1)
			}
		}(i)
	}
	wg.Wait()

	sort.Ints(counts)
	for i, c := range counts {
		require.Equal(t, i+1, c, "every increment must be observed exactly once")
	}
	assert.Equal(t, int64(n/2), allowed.Load())
}

func TestLimiter_CheckRule(t *testing.T) {
	limiter := NewLimiter()
	res := limiter.CheckRule("ip:v1", Rule{Name: "v1", Limit: 60, Window: time.Minute})
	assert.True(t, res.Allowed)
	assert.Equal(t, 60, res.Limit)
	assert.Equal(t, 59, res.Remaining)
}
