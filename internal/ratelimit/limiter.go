// Package ratelimit implements an in-process fixed-window request counter.
//
// Windows are not aligned to wall-clock boundaries: a bucket's window opens
// at its first request and a client may therefore send up to twice the limit
// across a boundary. Buckets are never evicted, so keys should have bounded
// cardinality (client address plus route name).
package ratelimit

import (
	"sync"
	"time"
)

// Rule names a budget of Limit requests per Window.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Result is the outcome of one Check.
type Result struct {
	Allowed   bool
	Limit     int
	Count     int
	Remaining int
	// ResetAt is the epoch second after which the window restarts.
	ResetAt int64
	// RetryAfter is set on denial: the wait until the next window opens.
	RetryAfter time.Duration
}

type bucket struct {
	windowStart int64
	count       int
}

// Limiter counts requests per key. It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// NewLimiter creates an empty limiter on the wall clock.
func NewLimiter() *Limiter {
	return NewLimiterWithClock(time.Now)
}

// NewLimiterWithClock creates a limiter that reads time from now.
func NewLimiterWithClock(now func() time.Time) *Limiter {
	return &Limiter{buckets: make(map[string]*bucket), now: now}
}

// Check records one request for key and reports whether it fits the budget.
// The lookup, reset and increment happen under one lock, so concurrent calls
// for the same key never lose an update. Check never blocks beyond that lock.
func (l *Limiter) Check(key string, limit int, window time.Duration) Result {
	windowSeconds := int64(window / time.Second)
	if windowSeconds < 1 {
		windowSeconds = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now().Unix()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{windowStart: now}
		l.buckets[key] = b
	}
	if now > b.windowStart+windowSeconds {
		b.windowStart = now
		b.count = 0
	}
	b.count++

	remaining := limit - b.count
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:   b.count <= limit,
		Limit:     limit,
		Count:     b.count,
		Remaining: remaining,
		ResetAt:   b.windowStart + windowSeconds,
	}
	if !res.Allowed {
		res.RetryAfter = time.Duration(res.ResetAt+1-now) * time.Second
	}
	return res
}

// CheckRule is Check with the budget taken from r.
func (l *Limiter) CheckRule(key string, r Rule) Result {
	return l.Check(key, r.Limit, r.Window)
}

// Len reports how many buckets exist.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
